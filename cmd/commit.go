package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cashflow"
	"github.com/etnz/cashflow/date"
	"github.com/google/subcommands"
)

type commitCmd struct {
	rule string
	date string
}

func (*commitCmd) Name() string     { return "commit" }
func (*commitCmd) Synopsis() string { return "record an occurrence of a recurring rule" }
func (*commitCmd) Usage() string {
	return `cfp commit -rule <rule> [-d <date>]

  Records the occurrence of a rule on a date as a real transaction. Without
  -d, the first occurrence not recorded yet is committed.
`
}

func (c *commitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.rule, "rule", "", "Rule id. Required.")
	f.StringVar(&c.date, "d", "", "Date of the occurrence.")
}

// nextUnrecorded returns the first occurrence of the rule whose transaction is not in the ledger.
func nextUnrecorded(l *cashflow.Ledger, r cashflow.Rule) (date.Date, bool) {
	on, ok := cashflow.NextOccurrence(r, r.Start.Add(-1))
	for ok {
		if _, exists := l.Transaction(cashflow.ProjectedID(r.ID, on)); !exists {
			return on, true
		}
		on, ok = cashflow.NextOccurrence(r, on)
	}
	return date.Date{}, false
}

func (c *commitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.rule == "" {
		fmt.Fprintln(os.Stderr, "Error: -rule is required.")
		return subcommands.ExitUsageError
	}

	book, ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading book: %v\n", err)
		return subcommands.ExitFailure
	}
	rule, ok := book.Rule(c.rule)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown rule %q\n", c.rule)
		return subcommands.ExitFailure
	}

	var on date.Date
	if c.date != "" {
		if on, err = date.Parse(c.date); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	} else if on, ok = nextUnrecorded(ledger, rule); !ok {
		fmt.Fprintf(os.Stderr, "Error: rule %q has no occurrence left to commit\n", rule.ID)
		return subcommands.ExitFailure
	}

	var tx cashflow.Transaction
	var found bool
	for generated, err := range cashflow.NewGenerator(ledger).GenerateRange(rule, date.Range{From: on, To: on}) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		tx, found = generated, true
	}
	if !found {
		fmt.Fprintf(os.Stderr, "Error: rule %q has no occurrence on %s\n", rule.ID, on)
		return subcommands.ExitFailure
	}

	tx = tx.Record()
	if err := ledger.Insert(tx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	book.Transactions = append(book.Transactions, tx)

	if err := EncodeBook(book); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving book: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Occurrence of %q on %s recorded in %s\n", rule.ID, on, BookPath())
	return subcommands.ExitSuccess
}
