package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/cashflow"
	"github.com/etnz/cashflow/date"
	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// postingsFlag collects repeated -p flags.
type postingsFlag []string

func (p *postingsFlag) String() string { return strings.Join(*p, " ") }
func (p *postingsFlag) Set(v string) error {
	*p = append(*p, v)
	return nil
}

// parsePosting parses "account=amount[:CUR]". The currency defaults to cur.
func parsePosting(s, cur string) (cashflow.Posting, error) {
	account, amount, ok := strings.Cut(s, "=")
	if !ok || account == "" || amount == "" {
		return cashflow.Posting{}, fmt.Errorf("invalid posting %q, expecting account=amount[:CUR]", s)
	}
	if a, c, found := strings.Cut(amount, ":"); found {
		amount, cur = a, strings.ToUpper(c)
	}
	m, err := cashflow.ParseMoney(amount, cur)
	if err != nil {
		return cashflow.Posting{}, fmt.Errorf("invalid posting %q: %w", s, err)
	}
	return cashflow.P(account, m), nil
}

type recordCmd struct {
	id          string
	date        string
	description string
	mode        string
	currency    string
	postings    postingsFlag
}

func (*recordCmd) Name() string     { return "record" }
func (*recordCmd) Synopsis() string { return "record a transaction in the book" }
func (*recordCmd) Usage() string {
	return `cfp record [-d <date>] [-m <description>] [-mode double|single] [-c <currency>] -p <account>=<amount>[:<currency>] ...

  Records a transaction. Each -p flag adds a posting: positive amounts are
  debits, negative amounts are credits. In double mode (the default) the
  postings must sum to zero in each currency. Single mode accepts incomplete
  entries, e.g. a single posting.

Usage Examples:
# pay the rent from the cash account
$ cfp record -d 2024-01-31 -m "January rent" -p rent=700:USD -p cash=-700:USD
`
}

func (c *recordCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Transaction id. Defaults to a new random id.")
	f.StringVar(&c.date, "d", date.Today().String(), "Transaction date. See the user manual for supported date formats.")
	f.StringVar(&c.description, "m", "", "Description of the transaction.")
	f.StringVar(&c.mode, "mode", "double", "Entry mode: double or single.")
	f.StringVar(&c.currency, "c", "", "Currency of the postings without one. Defaults to the configuration key 'currency'.")
	f.Var(&c.postings, "p", "Posting as account=amount[:CUR]. Repeat for each posting.")
}

func (c *recordCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	mode, err := cashflow.ParseMode(c.mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.currency == "" {
		c.currency = viper.GetString("currency")
	}
	var postings []cashflow.Posting
	for _, s := range c.postings {
		p, err := parsePosting(s, c.currency)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		postings = append(postings, p)
	}
	if c.id == "" {
		c.id = uuid.NewString()
	}

	book, ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading book: %v\n", err)
		return subcommands.ExitFailure
	}

	tx, err := cashflow.Build(ledger, c.id, on, c.description, mode, postings...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := ledger.Insert(tx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	book.Transactions = append(book.Transactions, tx)

	if err := EncodeBook(book); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving book: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Transaction %s recorded in %s\n", tx.ID(), BookPath())
	return subcommands.ExitSuccess
}
