// Package renderer formats cash-flow reports as markdown.
package renderer

import (
	"iter"
	"strings"

	"github.com/etnz/cashflow"
	"github.com/etnz/cashflow/date"
)

// View is what reports read from. Both *cashflow.Ledger and *cashflow.Projection implement it.
type View interface {
	Account(id string) (cashflow.Account, bool)
	Accounts() iter.Seq[cashflow.Account]
	Transactions() iter.Seq[cashflow.Transaction]
	BalanceAsOf(id string, on date.Date) (cashflow.Balance, error)
	RunningBalance(id string) (iter.Seq[cashflow.StatementLine], error)
}

// balance formats a balance, one currency per line.
func balance(b cashflow.Balance) string {
	if b.IsZero() {
		return "-"
	}
	var parts []string
	for _, cur := range b.Currencies() {
		if m := b.Get(cur); !m.IsZero() {
			parts = append(parts, m.String())
		}
	}
	return strings.Join(parts, "<br>")
}

// debitCredit splits a posting amount into its debit and credit columns.
func debitCredit(p cashflow.Posting) (debit, credit string) {
	switch p.Side() {
	case cashflow.Debit:
		return p.Amount.String(), ""
	case cashflow.Credit:
		return "", p.Amount.Abs().String()
	}
	return "", ""
}

func accountName(v View, id string) string {
	if a, ok := v.Account(id); ok {
		return a.DisplayName()
	}
	return id
}

// statusMark flags projected transactions in tables.
func statusMark(s cashflow.Status) string {
	if s == cashflow.Projected {
		return "*"
	}
	return ""
}
