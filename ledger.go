package cashflow

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"slices"

	"github.com/etnz/cashflow/date"
)

// Ledger owns accounts and recorded transactions.
//
// Transactions are kept in insertion order. The ledger maintains an index
// from account to the postings referencing it, it is the only derived state
// and is updated on each Insert.
type Ledger struct {
	accounts     map[string]Account
	order        []string // account ids in creation order
	transactions []Transaction
	ids          map[string]int       // transaction id -> position in transactions
	index        map[string][]postRef // account id -> postings in insertion order
}

// postRef locates a posting inside the ledger's transactions.
type postRef struct {
	tx      int
	posting int
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		accounts: make(map[string]Account),
		ids:      make(map[string]int),
		index:    make(map[string][]postRef),
	}
}

// AddAccount creates a new account.
func (l *Ledger) AddAccount(id, name string, kind Kind) (Account, error) {
	if id == "" {
		return Account{}, errors.New("account id is empty")
	}
	if _, exists := l.accounts[id]; exists {
		return Account{}, fmt.Errorf("%w %q", ErrDuplicateAccountID, id)
	}
	if kind < Asset || kind > Expense {
		return Account{}, fmt.Errorf("account %q: invalid kind %v", id, kind)
	}
	a := Account{ID: id, Name: name, Kind: kind}
	l.accounts[id] = a
	l.order = append(l.order, id)
	return a, nil
}

// RenameAccount changes the display name of an account, the only mutable account attribute.
func (l *Ledger) RenameAccount(id, name string) error {
	a, ok := l.accounts[id]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownAccount, id)
	}
	a.Name = name
	l.accounts[id] = a
	return nil
}

// Account returns the account with this id.
func (l *Ledger) Account(id string) (Account, bool) {
	a, ok := l.accounts[id]
	return a, ok
}

// Accounts iterates over accounts in creation order.
func (l *Ledger) Accounts() iter.Seq[Account] {
	return func(yield func(Account) bool) {
		for _, id := range l.order {
			if !yield(l.accounts[id]) {
				return
			}
		}
	}
}

// Transaction returns the transaction with this id.
func (l *Ledger) Transaction(id string) (Transaction, bool) {
	i, ok := l.ids[id]
	if !ok {
		return Transaction{}, false
	}
	return l.transactions[i], true
}

// Transactions iterates over transactions in insertion order.
func (l *Ledger) Transactions() iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range l.transactions {
			if !yield(tx) {
				return
			}
		}
	}
}

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// Insert validates and appends a transaction.
//
// The transaction is validated again against this ledger's accounts, it may
// have been built against another set. On error the ledger is left unchanged.
func (l *Ledger) Insert(tx Transaction) error {
	if tx.id == "" {
		return errors.New("transaction id is empty")
	}
	if _, exists := l.ids[tx.id]; exists {
		return fmt.Errorf("%w %q", ErrDuplicateTransactionID, tx.id)
	}
	if err := Validate(tx, l); err != nil {
		return err
	}

	// Nothing can fail from here.
	pos := len(l.transactions)
	l.transactions = append(l.transactions, tx)
	l.ids[tx.id] = pos
	for i, p := range tx.postings {
		l.index[p.Account] = append(l.index[p.Account], postRef{tx: pos, posting: i})
	}
	slog.Debug("insert transaction", "id", tx.id, "date", tx.date, "status", tx.status, "postings", len(tx.postings))
	return nil
}

// Balance returns the sum of all postings on the account, per currency.
func (l *Ledger) Balance(id string) (Balance, error) {
	return l.balance(id, func(Transaction) bool { return true })
}

// BalanceAsOf returns the sum of the account's postings dated on or before 'on', per currency.
func (l *Ledger) BalanceAsOf(id string, on date.Date) (Balance, error) {
	return l.balance(id, func(tx Transaction) bool { return !tx.date.After(on) })
}

func (l *Ledger) balance(id string, accept func(Transaction) bool) (Balance, error) {
	if _, ok := l.accounts[id]; !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownAccount, id)
	}
	b := make(Balance)
	for _, ref := range l.index[id] {
		tx := l.transactions[ref.tx]
		if accept(tx) {
			b.Add(tx.postings[ref.posting].Amount)
		}
	}
	return b, nil
}

// StatementLine is the effect of one transaction on an account.
type StatementLine struct {
	TransactionID string
	Date          date.Date
	Description   string
	Status        Status
	Postings      []Posting // the transaction's postings on this account
	Balance       Balance   // the account balance after the transaction
}

// RunningBalance returns the account's statement in insertion order.
//
// The sequence is computed lazily and can be iterated several times.
func (l *Ledger) RunningBalance(id string) (iter.Seq[StatementLine], error) {
	if _, ok := l.accounts[id]; !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownAccount, id)
	}
	refs := l.index[id]
	return func(yield func(StatementLine) bool) {
		running := make(Balance)
		for i := 0; i < len(refs); {
			pos := refs[i].tx
			tx := l.transactions[pos]
			line := StatementLine{
				TransactionID: tx.id,
				Date:          tx.date,
				Description:   tx.description,
				Status:        tx.status,
			}
			// refs of the same transaction are contiguous
			for ; i < len(refs) && refs[i].tx == pos; i++ {
				p := tx.postings[refs[i].posting]
				line.Postings = append(line.Postings, p)
				running.Add(p.Amount)
			}
			line.Balance = running.clone()
			if !yield(line) {
				return
			}
		}
	}, nil
}

// Clone returns an independent copy of the ledger. Transactions are immutable and shared.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{
		accounts:     maps.Clone(l.accounts),
		order:        slices.Clone(l.order),
		transactions: slices.Clone(l.transactions),
		ids:          maps.Clone(l.ids),
		index:        make(map[string][]postRef, len(l.index)),
	}
	for id, refs := range l.index {
		c.index[id] = slices.Clone(refs)
	}
	return c
}

// Range returns the dates of the oldest and newest transactions.
// ok is false on an empty ledger.
func (l *Ledger) Range() (r date.Range, ok bool) {
	for i, tx := range l.transactions {
		if i == 0 || tx.date.Before(r.From) {
			r.From = tx.date
		}
		if i == 0 || tx.date.After(r.To) {
			r.To = tx.date
		}
	}
	return r, len(l.transactions) > 0
}
