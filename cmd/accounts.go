package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cashflow/date"
	"github.com/etnz/cashflow/renderer"
	"github.com/google/subcommands"
)

type accountsCmd struct {
	date string
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list accounts with their balance" }
func (*accountsCmd) Usage() string {
	return `cfp accounts [-d <date>]

  Lists the accounts of the book with their balance on a given date.
  Balances are shown with the natural sign of the account kind: a positive
  income or liability balance is an increase of that account.
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Date of the balances. See the user manual for supported date formats.")
}

func (c *accountsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	_, ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading book: %v\n", err)
		return subcommands.ExitFailure
	}

	report, err := renderer.AccountsMarkdown(ledger, on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating accounts report: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := printMarkdown(report); err != nil {
		fmt.Fprintf(os.Stderr, "Error printing report: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
