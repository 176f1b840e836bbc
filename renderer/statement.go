package renderer

import (
	"bytes"
	"fmt"
	"iter"

	"github.com/etnz/cashflow"
	md "github.com/nao1215/markdown"
)

// StatementMarkdown renders the running balance of an account.
func StatementMarkdown(a cashflow.Account, lines iter.Seq[cashflow.StatementLine]) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Statement of %s", a.DisplayName()))
	writeStatement(doc, a, lines)
	return doc.String()
}

func writeStatement(doc *md.Markdown, a cashflow.Account, lines iter.Seq[cashflow.StatementLine]) {
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Date", "Description", "Debit", "Credit", "Balance"},
	}
	var projected bool
	for line := range lines {
		mark := statusMark(line.Status)
		projected = projected || mark != ""
		for i, p := range line.Postings {
			debit, credit := debitCredit(p)
			row := []string{"", "", debit, credit, ""}
			if i == 0 {
				row[0] = line.Date.String() + mark
				row[1] = line.Description
			}
			if p.Memo != "" {
				row[1] += " _" + p.Memo + "_"
			}
			if i == len(line.Postings)-1 {
				row[4] = balance(line.Balance.Natural(a.Kind))
			}
			table.Rows = append(table.Rows, row)
		}
	}
	if len(table.Rows) == 0 {
		doc.PlainText("No transactions.")
		return
	}
	doc.Table(table)
	if projected {
		doc.PlainText("\\* projected")
	}
}
