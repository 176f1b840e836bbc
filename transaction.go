package cashflow

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/cashflow/date"
	"github.com/shopspring/decimal"
)

// Mode selects the invariant enforced on a transaction.
type Mode int

const (
	// Double requires postings to sum to zero in every currency.
	Double Mode = iota
	// Single disables the zero-sum check. It is meant for intentionally incomplete
	// entries, no offsetting account is ever inferred.
	Single
)

func (m Mode) String() string {
	if m == Single {
		return "single"
	}
	return "double"
}

// ParseMode parses "double" or "single". The empty string is Double.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "double":
		return Double, nil
	case "single":
		return Single, nil
	default:
		return Double, fmt.Errorf("unknown transaction mode %q", s)
	}
}

func (m Mode) MarshalJSON() ([]byte, error) { return json.Marshal(m.String()) }

func (m *Mode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Status tells whether a transaction was recorded or materialized from a rule.
type Status int

const (
	Recorded Status = iota
	Projected
)

func (s Status) String() string {
	if s == Projected {
		return "projected"
	}
	return "recorded"
}

// Side is the accounting side of a posting.
type Side int

const (
	NoSide Side = iota
	Debit
	Credit
)

func (s Side) String() string {
	switch s {
	case Debit:
		return "debit"
	case Credit:
		return "credit"
	default:
		return "-"
	}
}

// Posting is a signed movement of money against one account.
// Positive amounts are debits, negative amounts are credits.
type Posting struct {
	Account string
	Amount  Money
	Memo    string
}

// P is a shorthand to create a Posting.
func P(account string, amount Money) Posting { return Posting{Account: account, Amount: amount} }

// Side returns the side implied by the amount's sign.
func (p Posting) Side() Side {
	switch {
	case p.Amount.IsPositive():
		return Debit
	case p.Amount.IsNegative():
		return Credit
	default:
		return NoSide
	}
}

// Equal reports whether both postings are identical.
func (p Posting) Equal(o Posting) bool {
	return p.Account == o.Account && p.Amount.Equal(o.Amount) && p.Memo == o.Memo
}

func (p Posting) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("account", p.Account)
	w.EmbedFrom(p.Amount)
	w.Optional("memo", p.Memo)
	return w.MarshalJSON()
}

func (p *Posting) UnmarshalJSON(data []byte) error {
	var j struct {
		Account string `json:"account"`
		Memo    string `json:"memo"`
	}
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	if j.Account == "" {
		return fmt.Errorf("posting is missing the account")
	}
	var m Money
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("posting on %q: %w", j.Account, err)
	}
	*p = Posting{Account: j.Account, Amount: m, Memo: j.Memo}
	return nil
}

// Transaction is a dated set of postings. It is immutable: build it with Build,
// accessors return copies.
type Transaction struct {
	id          string
	date        date.Date
	description string
	mode        Mode
	status      Status
	rule        string
	postings    []Posting
}

func (t Transaction) ID() string          { return t.id }
func (t Transaction) Date() date.Date     { return t.date }
func (t Transaction) Description() string { return t.description }
func (t Transaction) Mode() Mode          { return t.mode }
func (t Transaction) Status() Status      { return t.status }

// Rule returns the id of the rule that generated this transaction, if any.
func (t Transaction) Rule() string { return t.rule }

// Postings returns a copy of the postings in their original order.
func (t Transaction) Postings() []Posting { return slices.Clone(t.postings) }

// Len returns the number of postings.
func (t Transaction) Len() int { return len(t.postings) }

// Equal reports whether both transactions are identical.
func (t Transaction) Equal(o Transaction) bool {
	return t.id == o.id && t.date == o.date && t.description == o.description &&
		t.mode == o.mode && t.status == o.status && t.rule == o.rule &&
		slices.EqualFunc(t.postings, o.postings, Posting.Equal)
}

// Build creates a transaction and validates it against the accounts. It has no side effect.
func Build(accounts Accounts, id string, on date.Date, description string, mode Mode, postings ...Posting) (Transaction, error) {
	tx := Transaction{
		id:          id,
		date:        on,
		description: description,
		mode:        mode,
		postings:    slices.Clone(postings),
	}
	if err := Validate(tx, accounts); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// project returns a copy of the transaction marked as generated by a rule.
func (t Transaction) project(rule string) Transaction {
	t.status = Projected
	t.rule = rule
	return t
}

// Record returns a copy of a projected transaction turned into a recorded one.
// The originating rule is kept.
func (t Transaction) Record() Transaction {
	t.status = Recorded
	return t
}

// Validate checks the transaction invariants:
//   - there is at least one posting
//   - every posting references a known account
//   - in Double mode, postings sum to zero in each currency.
func Validate(tx Transaction, accounts Accounts) error {
	if len(tx.postings) == 0 {
		return fmt.Errorf("transaction %q: %w", tx.id, ErrEmptyTransaction)
	}
	for _, p := range tx.postings {
		if _, ok := accounts.Account(p.Account); !ok {
			return fmt.Errorf("transaction %q: %w %q", tx.id, ErrUnknownAccount, p.Account)
		}
	}
	if tx.mode == Single {
		return nil
	}
	return checkBalanced(tx.postings)
}

// checkBalanced reports the first currency, in order of appearance, whose postings do not sum to zero.
func checkBalanced(postings []Posting) error {
	sums := make(map[string]decimal.Decimal)
	var order []string
	for _, p := range postings {
		cur := p.Amount.cur
		if _, ok := sums[cur]; !ok {
			order = append(order, cur)
		}
		sums[cur] = sums[cur].Add(p.Amount.value)
	}
	for _, cur := range order {
		if !sums[cur].IsZero() {
			return &UnbalancedError{Currency: cur, Residual: M(sums[cur], cur)}
		}
	}
	return nil
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.id)
	w.Append("date", t.date)
	w.Optional("description", t.description)
	if t.mode != Double {
		w.Append("mode", t.mode)
	}
	if t.status == Projected {
		w.Append("status", t.status.String())
	}
	w.Optional("rule", t.rule)
	w.Append("postings", t.postings)
	return w.MarshalJSON()
}

// UnmarshalJSON decodes a transaction without validating it against accounts,
// the ledger does it on insertion.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var j struct {
		ID          string     `json:"id"`
		Date        *date.Date `json:"date"`
		Description string     `json:"description"`
		Mode        Mode       `json:"mode"`
		Rule        string     `json:"rule"`
		Postings    []Posting  `json:"postings"`
	}
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	if j.ID == "" {
		return fmt.Errorf("transaction is missing the id")
	}
	if j.Date == nil {
		return fmt.Errorf("transaction %q is missing the date", j.ID)
	}
	*t = Transaction{
		id:          j.ID,
		date:        *j.Date,
		description: j.Description,
		mode:        j.Mode,
		rule:        j.Rule,
		postings:    j.Postings,
	}
	return nil
}
