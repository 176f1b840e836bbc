package cashflow

import (
	"fmt"
	"iter"

	"github.com/etnz/cashflow/date"
)

// Projection is a read-only view of a ledger merged with projected transactions.
// The recorded ledger is never modified.
type Projection struct {
	view      *Ledger
	projected []Transaction
}

// NewProjection merges projected transactions into a copy of the ledger.
func NewProjection(recorded *Ledger, projected []Transaction) (*Projection, error) {
	view := recorded.Clone()
	for _, tx := range projected {
		if err := view.Insert(tx); err != nil {
			return nil, fmt.Errorf("cannot project %s on %s: %w", tx.id, tx.date, err)
		}
	}
	return &Projection{view: view, projected: projected}, nil
}

// Projected iterates over the projected transactions only.
func (p *Projection) Projected() iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range p.projected {
			if !yield(tx) {
				return
			}
		}
	}
}

func (p *Projection) Account(id string) (Account, bool)        { return p.view.Account(id) }
func (p *Projection) Accounts() iter.Seq[Account]              { return p.view.Accounts() }
func (p *Projection) Transactions() iter.Seq[Transaction]      { return p.view.Transactions() }
func (p *Projection) Balance(id string) (Balance, error)       { return p.view.Balance(id) }
func (p *Projection) Len() int                                 { return p.view.Len() }
func (p *Projection) Transaction(id string) (Transaction, bool) { return p.view.Transaction(id) }

func (p *Projection) BalanceAsOf(id string, on date.Date) (Balance, error) {
	return p.view.BalanceAsOf(id, on)
}

func (p *Projection) RunningBalance(id string) (iter.Seq[StatementLine], error) {
	return p.view.RunningBalance(id)
}
