package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cashflow"
	"github.com/etnz/cashflow/renderer"
	"github.com/google/subcommands"
)

type statementCmd struct {
	account string
}

func (*statementCmd) Name() string     { return "statement" }
func (*statementCmd) Synopsis() string { return "display the statement of an account" }
func (*statementCmd) Usage() string {
	return `cfp statement -a <account>

  Displays every transaction on an account, in the order they were recorded,
  with the running balance after each one.
`
}

func (c *statementCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account id. Required.")
}

func (c *statementCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		fmt.Fprintln(os.Stderr, "Error: -a is required.")
		return subcommands.ExitUsageError
	}

	_, ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading book: %v\n", err)
		return subcommands.ExitFailure
	}

	account, ok := ledger.Account(c.account)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: %v %q\n", cashflow.ErrUnknownAccount, c.account)
		return subcommands.ExitFailure
	}
	lines, err := ledger.RunningBalance(account.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing statement: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := printMarkdown(renderer.StatementMarkdown(account, lines)); err != nil {
		fmt.Fprintf(os.Stderr, "Error printing report: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
