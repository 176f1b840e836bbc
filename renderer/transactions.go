package renderer

import (
	"bytes"
	"iter"

	"github.com/etnz/cashflow"
	md "github.com/nao1215/markdown"
)

// TransactionsMarkdown renders a journal of transactions, one line per posting.
func TransactionsMarkdown(v View, title string, txs iter.Seq[cashflow.Transaction]) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(title)
	writeJournal(doc, v, txs)
	return doc.String()
}

func writeJournal(doc *md.Markdown, v View, txs iter.Seq[cashflow.Transaction]) {
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Date", "Description", "Account", "Debit", "Credit"},
	}
	var projected bool
	for tx := range txs {
		mark := statusMark(tx.Status())
		projected = projected || mark != ""
		for i, p := range tx.Postings() {
			debit, credit := debitCredit(p)
			row := []string{"", "", accountName(v, p.Account), debit, credit}
			if i == 0 {
				row[0] = tx.Date().String() + mark
				row[1] = tx.Description()
				if tx.Mode() == cashflow.Single {
					row[1] += " (single entry)"
				}
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
