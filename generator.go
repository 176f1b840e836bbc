package cashflow

import (
	"iter"
	"log/slog"
	"slices"

	"github.com/etnz/cashflow/date"
	"github.com/google/uuid"
)

// projectedNamespace seeds the ids of generated transactions.
var projectedNamespace = uuid.MustParse("6f1c2a9e-4b1d-4f57-9a3e-2d7c8b5e0a11")

// ProjectedID returns the id of the transaction generated by a rule on a date.
// It is stable, generating the same occurrence twice gives the same id.
func ProjectedID(rule string, on date.Date) string {
	return uuid.NewSHA1(projectedNamespace, []byte(rule+"@"+on.String())).String()
}

// Generator materializes transactions from rules.
//
// It only reads the accounts it validates against and never inserts the
// transactions it produces. It holds no state, so independent rules can be
// generated concurrently.
type Generator struct {
	accounts Accounts
}

// NewGenerator creates a generator validating transactions against the accounts.
func NewGenerator(accounts Accounts) *Generator {
	return &Generator{accounts: accounts}
}

// Generate returns the transactions of the rule from its start up to the horizon, included.
//
// The sequence stops at the horizon or at the rule's end condition. If an
// occurrence is invalid, the sequence yields a *TemplateError and stops.
func (g *Generator) Generate(r Rule, horizon date.Date) iter.Seq2[Transaction, error] {
	return g.GenerateRange(r, date.Range{From: r.Start, To: horizon})
}

// GenerateRange is like Generate but only yields occurrences within the range.
func (g *Generator) GenerateRange(r Rule, within date.Range) iter.Seq2[Transaction, error] {
	return func(yield func(Transaction, error) bool) {
		if err := r.Check(); err != nil {
			yield(Transaction{}, &TemplateError{Rule: r.ID, Date: r.Start, Err: err})
			return
		}
		var esc *escalator
		if r.Escalation != nil {
			esc = newEscalator(*r.Escalation, r.Template.Postings)
		}
		for on := range Occurrences(r, within) {
			tx, err := g.materialize(r, on, esc)
			if err != nil {
				slog.Debug("rule generation aborted", "rule", r.ID, "date", on, "error", err)
				yield(Transaction{}, err)
				return
			}
			if !yield(tx, nil) {
				return
			}
		}
	}
}

// materialize builds the rule's transaction for one occurrence.
func (g *Generator) materialize(r Rule, on date.Date, esc *escalator) (Transaction, error) {
	postings := r.Template.Postings
	if esc != nil {
		postings = esc.escalate(postings, on)
	}
	description := r.Template.Description
	if description == "" {
		description = r.Name
	}
	tx, err := Build(g.accounts, ProjectedID(r.ID, on), on, description, r.Template.Mode, postings...)
	if err != nil {
		return Transaction{}, &TemplateError{Rule: r.ID, Date: on, Err: err}
	}
	return tx.project(r.ID), nil
}

// GenerateAll generates all the rules within the range and merges them in date order.
// Transactions on the same day keep the order of the rules.
func (g *Generator) GenerateAll(rules []Rule, within date.Range) ([]Transaction, error) {
	var txs []Transaction
	for _, r := range rules {
		for tx, err := range g.GenerateRange(r, within) {
			if err != nil {
				return nil, err
			}
			txs = append(txs, tx)
		}
	}
	slices.SortStableFunc(txs, func(a, b Transaction) int { return a.date.Compare(b.date) })
	return txs, nil
}
