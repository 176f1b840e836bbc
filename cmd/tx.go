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

type txCmd struct {
	period string
	start  string
	date   string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list recorded transactions" }
func (*txCmd) Usage() string {
	return `cfp tx [-p <period> | -s <start_date>] [-d <end_date>]

  Lists the recorded transactions of the book, in the order they were recorded.
  Without any flag, all transactions are listed.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "", "Predefined period (day, week, month, quarter, year) ending on -d.")
	f.StringVar(&c.start, "s", "", "The start date for a custom range. Overrides -p.")
	f.StringVar(&c.date, "d", "", "The end date for the range. Defaults to today.")
}

// dateRange returns the range selected by the flags, ok is false when no flag is set.
func (c *txCmd) dateRange() (r date.Range, ok bool, err error) {
	if c.start == "" && c.date == "" && c.period == "" {
		return date.Range{}, false, nil
	}
	end := date.Today()
	if c.date != "" {
		if end, err = date.Parse(c.date); err != nil {
			return r, false, fmt.Errorf("invalid end date: %w", err)
		}
	}
	if c.start != "" {
		start, err := date.Parse(c.start)
		if err != nil {
			return r, false, fmt.Errorf("invalid start date: %w", err)
		}
		return date.NewRange(start, end), true, nil
	}
	if c.period == "" {
		return date.Range{From: date.New(1, 1, 1), To: end}, true, nil
	}
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		return r, false, err
	}
	return period.Range(end), true, nil
}

func (c *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	within, filtered, err := c.dateRange()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	_, ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading book: %v\n", err)
		return subcommands.ExitFailure
	}

	title := "Transactions"
	txs := ledger.Transactions()
	if filtered {
		title = fmt.Sprintf("Transactions %s", within)
		all := txs
		txs = func(yield func(cashflow.Transaction) bool) {
			for tx := range all {
				if within.Contains(tx.Date()) && !yield(tx) {
					return
				}
			}
		}
	}

	if err := printMarkdown(renderer.TransactionsMarkdown(ledger, title, txs)); err != nil {
		fmt.Fprintf(os.Stderr, "Error printing report: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
