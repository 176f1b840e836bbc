package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cashflow"
	"github.com/google/subcommands"
)

type addAccountCmd struct {
	id   string
	name string
	kind string
}

func (*addAccountCmd) Name() string     { return "add-account" }
func (*addAccountCmd) Synopsis() string { return "add an account to the book" }
func (*addAccountCmd) Usage() string {
	return `cfp add-account -id <id> -kind <kind> [-name <name>]

  Adds an account to the book. The kind is one of asset, liability, equity,
  income or expense. If the account already exists, -name renames it.
`
}

func (c *addAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Account id, used in postings. Required.")
	f.StringVar(&c.name, "name", "", "Display name of the account.")
	f.StringVar(&c.kind, "kind", "", "Account kind: asset, liability, equity, income or expense.")
}

func (c *addAccountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		fmt.Fprintln(os.Stderr, "Error: -id is required.")
		return subcommands.ExitUsageError
	}

	book, ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading book: %v\n", err)
		return subcommands.ExitFailure
	}

	if _, exists := ledger.Account(c.id); exists && c.kind == "" {
		if err := ledger.RenameAccount(c.id, c.name); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		for i := range book.Accounts {
			if book.Accounts[i].ID == c.id {
				book.Accounts[i].Name = c.name
			}
		}
	} else {
		kind, err := cashflow.ParseKind(c.kind)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		account, err := ledger.AddAccount(c.id, c.name, kind)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		book.Accounts = append(book.Accounts, account)
	}

	if err := EncodeBook(book); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving book: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Account %q saved to %s\n", c.id, BookPath())
	return subcommands.ExitSuccess
}
