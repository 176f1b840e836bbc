package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cashflow"
	"github.com/etnz/cashflow/date"
	"github.com/etnz/cashflow/renderer"
	"github.com/google/subcommands"
)

type balanceCmd struct {
	account string
	date    string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "display the balance of an account" }
func (*balanceCmd) Usage() string {
	return `cfp balance -a <account> [-d <date>]

  Displays the balance of an account on a date, per currency. Amounts in
  different currencies are never converted.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account id. Required.")
	f.StringVar(&c.date, "d", date.Today().String(), "Date of the balance. See the user manual for supported date formats.")
}

func (c *balanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		fmt.Fprintln(os.Stderr, "Error: -a is required.")
		return subcommands.ExitUsageError
	}
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

	account, ok := ledger.Account(c.account)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: %v %q\n", cashflow.ErrUnknownAccount, c.account)
		return subcommands.ExitFailure
	}
	b, err := ledger.BalanceAsOf(account.ID, on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing balance: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := printMarkdown(renderer.BalanceMarkdown(account, on, b)); err != nil {
		fmt.Fprintf(os.Stderr, "Error printing report: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
