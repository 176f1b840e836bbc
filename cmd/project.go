package cmd

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/etnz/cashflow"
	"github.com/etnz/cashflow/date"
	"github.com/etnz/cashflow/renderer"
	"github.com/google/subcommands"
	"github.com/spf13/viper"
)

type projectCmd struct {
	start   string
	date    string
	account string
	rule    string
}

func (*projectCmd) Name() string     { return "project" }
func (*projectCmd) Synopsis() string { return "project future cash flows from the recurring rules" }
func (*projectCmd) Usage() string {
	return `cfp project [-s <start_date>] [-d <horizon>] [-a <account>] [-rule <rule>]

  Generates the transactions of the book's recurring rules between the start
  date and the horizon, and shows the balances they lead to. Projected
  transactions are never saved: use 'cfp commit' to record one.

  The default horizon is read from the configuration key 'horizon' (+1y).
`
}

func (c *projectCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "s", date.Today().String(), "First day of the projection.")
	f.StringVar(&c.date, "d", "", "Horizon of the projection, included. Relative dates are relative to today.")
	f.StringVar(&c.account, "a", "", "Only show the statement of this account.")
	f.StringVar(&c.rule, "rule", "", "Only project this rule.")
}

func (c *projectCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	start, err := date.Parse(c.start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.date == "" {
		c.date = viper.GetString("horizon")
	}
	horizon, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing horizon: %v\n", err)
		return subcommands.ExitUsageError
	}
	if horizon.Before(start) {
		fmt.Fprintf(os.Stderr, "Error: horizon %s is before the start date %s\n", horizon, start)
		return subcommands.ExitUsageError
	}
	within := date.Range{From: start, To: horizon}

	book, ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading book: %v\n", err)
		return subcommands.ExitFailure
	}

	rules := book.Rules
	if c.rule != "" {
		r, ok := book.Rule(c.rule)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown rule %q\n", c.rule)
			return subcommands.ExitFailure
		}
		rules = []cashflow.Rule{r}
	}

	txs, err := cashflow.NewGenerator(ledger).GenerateAll(rules, within)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating transactions: %v\n", err)
		return subcommands.ExitFailure
	}
	txs = unrecorded(ledger, txs)
	slog.Info("projection", "range", within, "rules", len(rules), "transactions", len(txs))

	projection, err := cashflow.NewProjection(ledger, txs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error projecting transactions: %v\n", err)
		return subcommands.ExitFailure
	}

	report, err := renderer.ProjectionMarkdown(ledger, projection, within, c.account)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating projection report: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := printMarkdown(report); err != nil {
		fmt.Fprintf(os.Stderr, "Error printing report: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// unrecorded drops the occurrences that were already committed to the ledger.
func unrecorded(l *cashflow.Ledger, txs []cashflow.Transaction) []cashflow.Transaction {
	var kept []cashflow.Transaction
	for _, tx := range txs {
		if _, exists := l.Transaction(tx.ID()); exists {
			slog.Debug("occurrence already recorded", "id", tx.ID(), "rule", tx.Rule(), "date", tx.Date())
			continue
		}
		kept = append(kept, tx)
	}
	return kept
}
