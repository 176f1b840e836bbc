package cashflow

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents an exact monetary value in a given currency.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M creates a Money from any numeric value. It does not check the currency code, use ParseMoney for user input.
func M[T float64 | int | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

func newDecimal[T float64 | int | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	}
	return decimal.Zero
}

// ParseMoney parses an amount and checks that the currency is a known ISO 4217 code.
func ParseMoney(amount, currency string) (Money, error) {
	if err := checkCurrency(currency); err != nil {
		return Money{}, err
	}
	v, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return Money{value: v, cur: currency}, nil
}

func checkCurrency(code string) error {
	if code == "" {
		return fmt.Errorf("missing currency")
	}
	if money.GetCurrency(code) == nil {
		return fmt.Errorf("unknown currency %q", code)
	}
	return nil
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// Currency returns the currency code.
func (m Money) Currency() string { return m.cur }

// Amount returns the exact amount in major units.
func (m Money) Amount() decimal.Decimal { return m.value }

func (m Money) IsZero() bool     { return m.value.IsZero() }
func (m Money) IsPositive() bool { return m.value.IsPositive() }
func (m Money) IsNegative() bool { return m.value.IsNegative() }
func (m Money) Neg() Money       { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Abs() Money       { return Money{value: m.value.Abs(), cur: m.cur} }

// Equal reports whether m and n have the same currency and amount.
// 100 and 100.00 are equal. Unlike Compare, different currencies are not an
// error: the values are simply not equal.
func (m Money) Equal(n Money) bool { return m.cur == n.cur && m.value.Equal(n.value) }

// Add returns m+n. Both must share the same currency.
func (m Money) Add(n Money) (Money, error) {
	if m.cur != n.cur {
		return Money{}, mismatch(m, n)
	}
	return Money{value: m.value.Add(n.value), cur: m.cur}, nil
}

// Sub returns m-n. Both must share the same currency.
func (m Money) Sub(n Money) (Money, error) {
	if m.cur != n.cur {
		return Money{}, mismatch(m, n)
	}
	return Money{value: m.value.Sub(n.value), cur: m.cur}, nil
}

// Compare returns -1, 0 or +1 as m is less than, equal to or greater than n.
func (m Money) Compare(n Money) (int, error) {
	if m.cur != n.cur {
		return 0, mismatch(m, n)
	}
	return m.value.Cmp(n.value), nil
}

func mismatch(m, n Money) error {
	return fmt.Errorf("%w: %q and %q", ErrCurrencyMismatch, m.cur, n.cur)
}

// String returns the string representation of the money value using the currency conventions.
// Sub-unit digits beyond the currency fraction are kept.
func (m Money) String() string {
	cur := m.currency()
	if m.value.Exponent() < -int32(cur.Fraction) {
		return m.value.String() + " " + m.cur
	}
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("currency", m.cur)
	w.Append("amount", m.value)
	return w.MarshalJSON()
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var j struct {
		Currency string          `json:"currency"`
		Amount   decimal.Decimal `json:"amount"`
	}
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	if err := checkCurrency(j.Currency); err != nil {
		return err
	}
	*m = Money{value: j.Amount, cur: j.Currency}
	return nil
}

// Balance holds an amount per currency. Amounts in different currencies are never converted.
type Balance map[string]Money

// Add accumulates m into b.
func (b Balance) Add(m Money) {
	prev, ok := b[m.cur]
	if !ok {
		b[m.cur] = m
		return
	}
	// same currency by construction
	b[m.cur] = Money{value: prev.value.Add(m.value), cur: m.cur}
}

// Get returns the amount in the currency, zero if absent.
func (b Balance) Get(currency string) Money {
	if m, ok := b[currency]; ok {
		return m
	}
	return Money{value: decimal.Zero, cur: currency}
}

// Currencies returns the currencies in alphabetical order.
func (b Balance) Currencies() []string {
	return slices.Sorted(maps.Keys(b))
}

// IsZero is true when every currency sums to zero.
func (b Balance) IsZero() bool {
	for _, m := range b {
		if !m.IsZero() {
			return false
		}
	}
	return true
}

// Equal compares two balances, currencies with a zero amount are ignored.
func (b Balance) Equal(o Balance) bool {
	for cur, m := range b {
		if !o.Get(cur).value.Equal(m.value) {
			return false
		}
	}
	for cur, m := range o {
		if !b.Get(cur).value.Equal(m.value) {
			return false
		}
	}
	return true
}

// Natural returns the balance with the account kind's natural sign applied,
// so that an increase of the account reads positive.
func (b Balance) Natural(kind Kind) Balance {
	if NaturalSign(kind) > 0 {
		return maps.Clone(b)
	}
	n := make(Balance, len(b))
	for cur, m := range b {
		n[cur] = m.Neg()
	}
	return n
}

func (b Balance) clone() Balance { return maps.Clone(b) }

func (b Balance) String() string {
	if len(b) == 0 {
		return "0"
	}
	s := ""
	for i, cur := range b.Currencies() {
		if i > 0 {
			s += ", "
		}
		s += b[cur].String()
	}
	return s
}
