package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/cashflow"
	"github.com/etnz/cashflow/date"
	md "github.com/nao1215/markdown"
)

// AccountsMarkdown lists the accounts with their balance on a date.
// Balances are shown with the natural sign of each account kind.
func AccountsMarkdown(v View, on date.Date) (string, error) {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Accounts on %s", on))

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight},
		Header:    []string{"ID", "Name", "Kind", "Balance"},
	}
	for a := range v.Accounts() {
		b, err := v.BalanceAsOf(a.ID, on)
		if err != nil {
			return "", err
		}
		table.Rows = append(table.Rows, []string{a.ID, a.Name, a.Kind.String(), balance(b.Natural(a.Kind))})
	}
	if len(table.Rows) == 0 {
		doc.PlainText("No accounts.")
		return doc.String(), nil
	}
	doc.Table(table)
	return doc.String(), nil
}

// BalanceMarkdown renders the balance of one account on a date, per currency.
func BalanceMarkdown(a cashflow.Account, on date.Date, b cashflow.Balance) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("%s on %s", a.DisplayName(), on))

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Currency", "Balance", md.Bold(a.Kind.String())},
	}
	natural := b.Natural(a.Kind)
	for _, cur := range b.Currencies() {
		table.Rows = append(table.Rows, []string{cur, b.Get(cur).String(), natural.Get(cur).String()})
	}
	if len(table.Rows) == 0 {
		doc.PlainText("No postings.")
		return doc.String()
	}
	doc.Table(table)
	return doc.String()
}
