package cashflow

import (
	"fmt"
)

// Book is the content of a book file: accounts, recorded transactions and recurring rules.
type Book struct {
	Accounts     []Account
	Transactions []Transaction
	Rules        []Rule
}

// NewLedgerFromBook creates the accounts and inserts the transactions of the book, in order.
func NewLedgerFromBook(b *Book) (*Ledger, error) {
	l := NewLedger()
	for _, a := range b.Accounts {
		if _, err := l.AddAccount(a.ID, a.Name, a.Kind); err != nil {
			return nil, err
		}
	}
	for i, tx := range b.Transactions {
		if err := l.Insert(tx); err != nil {
			return nil, fmt.Errorf("transaction #%d on %s: %w", i+1, tx.date, err)
		}
	}
	return l, nil
}

// Rule returns the rule with this id.
func (b *Book) Rule(id string) (Rule, bool) {
	for _, r := range b.Rules {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}
