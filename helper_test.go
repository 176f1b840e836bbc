package cashflow

import (
	"testing"

	"github.com/etnz/cashflow/date"
	"github.com/stretchr/testify/require"
)

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// D is a shorthand for date.MustParse.
func D(s string) date.Date { return date.MustParse(s) }

// newTestLedger returns a ledger with a small chart of accounts.
func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l := NewLedger()
	for _, a := range []Account{
		{ID: "cash", Name: "Cash", Kind: Asset},
		{ID: "card", Name: "Credit Card", Kind: Liability},
		{ID: "salary", Name: "Salary", Kind: Income},
		{ID: "rent", Name: "Rent", Kind: Expense},
		{ID: "food", Name: "Groceries", Kind: Expense},
		{ID: "opening", Name: "Opening Balances", Kind: Equity},
	} {
		_, err := l.AddAccount(a.ID, a.Name, a.Kind)
		require.NoError(t, err)
	}
	return l
}

// mustBuild builds a Double transaction or fails the test.
func mustBuild(t *testing.T, l *Ledger, id, on string, postings ...Posting) Transaction {
	t.Helper()
	tx, err := Build(l, id, D(on), id, Double, postings...)
	require.NoError(t, err)
	return tx
}
