package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/cashflow"
	"github.com/etnz/cashflow/date"
	md "github.com/nao1215/markdown"
)

// ProjectionMarkdown renders a cash-flow projection: how balances move from
// the opening of the range (the day before it starts) to its end, then the projected transactions.
// When account is not empty, the report is restricted to that account's statement.
func ProjectionMarkdown(recorded View, p *cashflow.Projection, within date.Range, account string) (string, error) {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Cash Flow Projection %s", within))

	if account != "" {
		a, ok := p.Account(account)
		if !ok {
			return "", fmt.Errorf("%w %q", cashflow.ErrUnknownAccount, account)
		}
		lines, err := p.RunningBalance(account)
		if err != nil {
			return "", err
		}
		doc.H2(fmt.Sprintf("Statement of %s", a.DisplayName()))
		writeStatement(doc, a, lines)
		return doc.String(), nil
	}

	doc.H2("Balances")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Account", "Opening", "Closing"},
	}
	for a := range p.Accounts() {
		from, err := recorded.BalanceAsOf(a.ID, within.From.Add(-1))
		if err != nil {
			return "", err
		}
		to, err := p.BalanceAsOf(a.ID, within.To)
		if err != nil {
			return "", err
		}
		if from.IsZero() && to.IsZero() {
			continue
		}
		table.Rows = append(table.Rows, []string{
			a.DisplayName(),
			balance(from.Natural(a.Kind)),
			balance(to.Natural(a.Kind)),
		})
	}
	if len(table.Rows) > 0 {
		doc.Table(table)
	} else {
		doc.PlainText("No balances.")
	}

	doc.H2("Projected Transactions")
	writeJournal(doc, p, p.Projected())
	return doc.String(), nil
}
