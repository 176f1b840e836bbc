package cashflow

import (
	"errors"
	"fmt"

	"github.com/etnz/cashflow/date"
)

// Errors returned by the ledger and the generator. They are wrapped with
// context, test them with errors.Is.
var (
	ErrCurrencyMismatch           = errors.New("currency mismatch")
	ErrDuplicateAccountID         = errors.New("duplicate account id")
	ErrDuplicateTransactionID     = errors.New("duplicate transaction id")
	ErrUnknownAccount             = errors.New("unknown account")
	ErrEmptyTransaction           = errors.New("empty transaction")
	ErrUnbalancedTransaction      = errors.New("unbalanced transaction")
	ErrTemplateInvariantViolation = errors.New("template invariant violation")
)

// UnbalancedError reports the first currency whose postings do not sum to zero.
type UnbalancedError struct {
	Currency string
	Residual Money
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("%v: %s postings sum to %s", ErrUnbalancedTransaction, e.Currency, e.Residual.value)
}

func (e *UnbalancedError) Is(target error) bool { return target == ErrUnbalancedTransaction }

// TemplateError reports the occurrence at which a rule's template produced an invalid transaction.
// It matches both ErrTemplateInvariantViolation and the underlying validation error.
type TemplateError struct {
	Rule string
	Date date.Date
	Err  error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("%v: rule %q on %s: %v", ErrTemplateInvariantViolation, e.Rule, e.Date, e.Err)
}

func (e *TemplateError) Unwrap() []error { return []error{ErrTemplateInvariantViolation, e.Err} }
