package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/cashflow"
	"github.com/google/subcommands"
)

type queryCmd struct{}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "evaluate a JSONPath expression on the book" }
func (*queryCmd) Usage() string {
	return `cfp query <jsonpath>

  Evaluates a JSONPath expression on the JSON form of the book and prints the
  result as JSON, whatever the format of the book file.

Usage Examples:
# ids of all the expense accounts
$ cfp query '$.accounts[?(@.kind == "expense")].id'

# postings of the transaction "t1"
$ cfp query '$.transactions[?(@.id == "t1")].postings'
`
}

func (*queryCmd) SetFlags(f *flag.FlagSet) {}

func (c *queryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expecting exactly one JSONPath expression.")
		return subcommands.ExitUsageError
	}

	book, err := DecodeBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading book: %v\n", err)
		return subcommands.ExitFailure
	}

	result, err := queryBook(book, f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(stdout, string(result))
	return subcommands.ExitSuccess
}

// queryBook evaluates the JSONPath on the book and returns the indented JSON result.
func queryBook(book *cashflow.Book, path string) ([]byte, error) {
	var buf bytes.Buffer
	if err := cashflow.EncodeBook(&buf, book); err != nil {
		return nil, err
	}
	// jsonpath walks generic values
	var v any
	if err := json.Unmarshal(buf.Bytes(), &v); err != nil {
		return nil, err
	}
	res, err := jsonpath.Get(path, v)
	if err != nil {
		return nil, fmt.Errorf("cannot evaluate %q: %w", path, err)
	}
	return json.MarshalIndent(res, "", "  ")
}
