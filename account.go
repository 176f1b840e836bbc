package cashflow

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind is the type of an account. It drives the natural sign of reported balances.
type Kind int

const (
	Asset Kind = iota
	Liability
	Equity
	Income
	Expense
)

func (k Kind) String() string {
	switch k {
	case Asset:
		return "asset"
	case Liability:
		return "liability"
	case Equity:
		return "equity"
	case Income:
		return "income"
	case Expense:
		return "expense"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind parses an account kind. "revenue" is accepted for income.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asset":
		return Asset, nil
	case "liability":
		return Liability, nil
	case "equity":
		return Equity, nil
	case "income", "revenue":
		return Income, nil
	case "expense":
		return Expense, nil
	default:
		return 0, fmt.Errorf("unknown account kind %q", s)
	}
}

func (k Kind) MarshalJSON() ([]byte, error) { return json.Marshal(k.String()) }

func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// NaturalSign returns +1 for kinds that increase with debits (asset, expense)
// and -1 for kinds that increase with credits (liability, equity, income).
//
// It is only used to report balances, transaction validation ignores kinds.
func NaturalSign(kind Kind) int {
	switch kind {
	case Asset, Expense:
		return 1
	default:
		return -1
	}
}

// Account is a named node of the ledger.
type Account struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Kind Kind   `json:"kind"`
}

// DisplayName returns the name, or the id if the account has no name.
func (a Account) DisplayName() string {
	if a.Name == "" {
		return a.ID
	}
	return a.Name
}

// Accounts resolves account ids. A *Ledger is an Accounts.
type Accounts interface {
	Account(id string) (Account, bool)
}
