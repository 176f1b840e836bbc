package cashflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/etnz/cashflow/date"
	"github.com/shopspring/decimal"
)

// Unit is the calendar unit of a recurrence.
type Unit int

const (
	Day Unit = iota
	Week
	Month
	Year
)

func (u Unit) String() string {
	switch u {
	case Day:
		return "daily"
	case Week:
		return "weekly"
	case Month:
		return "monthly"
	case Year:
		return "yearly"
	default:
		return fmt.Sprintf("unit(%d)", int(u))
	}
}

// ParseUnit parses a recurrence unit, "monthly" and "months" are both accepted.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "day", "days":
		return Day, nil
	case "weekly", "week", "weeks":
		return Week, nil
	case "monthly", "month", "months":
		return Month, nil
	case "yearly", "year", "years", "annually":
		return Year, nil
	default:
		return Day, fmt.Errorf("unknown frequency %q", s)
	}
}

func (u Unit) MarshalJSON() ([]byte, error) { return json.Marshal(u.String()) }

func (u *Unit) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseUnit(s)
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// Frequency is "every Interval Units". A zero Interval means 1.
type Frequency struct {
	Unit     Unit `json:"frequency"`
	Interval int  `json:"interval,omitzero"`
}

var (
	Daily   = Frequency{Unit: Day, Interval: 1}
	Weekly  = Frequency{Unit: Week, Interval: 1}
	Monthly = Frequency{Unit: Month, Interval: 1}
	Yearly  = Frequency{Unit: Year, Interval: 1}
)

// EveryDays returns a fixed interval of n days.
func EveryDays(n int) Frequency { return Frequency{Unit: Day, Interval: n} }

func (f Frequency) interval() int { return max(f.Interval, 1) }

func (f Frequency) String() string {
	if f.interval() == 1 {
		return f.Unit.String()
	}
	names := [...]string{"days", "weeks", "months", "years"}
	if f.Unit < Day || f.Unit > Year {
		return f.Unit.String()
	}
	return fmt.Sprintf("every %d %s", f.interval(), names[f.Unit])
}

// nth returns the k-th date of the schedule anchored at start.
// Months and years are always computed from the anchor, so the day of the
// month never drifts after a clamped short month.
func (f Frequency) nth(start date.Date, k int) date.Date {
	n := k * f.interval()
	switch f.Unit {
	case Week:
		return start.Add(7 * n)
	case Month:
		return start.ShiftMonths(n)
	case Year:
		return start.ShiftYears(n)
	default:
		return start.Add(n)
	}
}

// firstAfter returns the smallest k such that nth(start, k) is strictly after 'after'.
func (f Frequency) firstAfter(start, after date.Date) int {
	if after.Before(start) {
		return 0
	}
	var k int
	switch f.Unit {
	case Month, Year:
		step := f.interval()
		if f.Unit == Year {
			step *= 12
		}
		k = after.MonthsSince(start) / step
	case Week:
		k = after.DaysSince(start)/(7*f.interval()) + 1
	default:
		k = after.DaysSince(start)/f.interval() + 1
	}
	for !f.nth(start, k).After(after) {
		k++
	}
	return k
}

// End is the end condition of a rule. The zero value never ends.
// When both are set, the schedule stops at whichever comes first.
type End struct {
	Count int       `json:"count,omitzero"` // stop after Count occurrences
	Until date.Date `json:"until,omitzero"` // last possible date, included
}

// Template is the shape of the transactions generated by a rule.
type Template struct {
	Description string    `json:"description,omitempty"`
	Mode        Mode      `json:"mode"`
	Postings    []Posting `json:"postings"`
}

// Escalation grows a rule's amounts over time.
//
// Each time a full period has elapsed since Start (the first one at
// Start+period) every posting magnitude m becomes m + Amount + Percentage*m.
// Signs are preserved and results are rounded to 4 decimal places.
type Escalation struct {
	Frequency
	Start      date.Date       `json:"start"`
	Percentage decimal.Decimal `json:"percentage,omitzero"`
	Amount     decimal.Decimal `json:"amount,omitzero"`
}

const (
	escalationPrecision = 4
	// intermediate magnitudes are rounded on each cycle so their size stays bounded.
	escalationWorkPrecision = 16
)

// cycles returns the number of escalations elapsed on 'on'.
func (e Escalation) cycles(on date.Date) int {
	if on.Before(e.Start) {
		return 0
	}
	return e.firstAfter(e.Start, on) - 1
}

// grow applies one escalation cycle to a magnitude.
func (e Escalation) grow(mag decimal.Decimal) decimal.Decimal {
	return mag.Add(e.Amount).Add(e.Percentage.Mul(mag)).Round(escalationWorkPrecision)
}

// escalator applies an escalation to a template's postings for increasing dates.
// It keeps the magnitudes of the last computed cycle, so a whole sequence costs
// one step per elapsed cycle.
type escalator struct {
	e      Escalation
	cycles int
	mags   []decimal.Decimal
}

func newEscalator(e Escalation, postings []Posting) *escalator {
	mags := make([]decimal.Decimal, len(postings))
	for i, p := range postings {
		mags[i] = p.Amount.value.Abs()
	}
	return &escalator{e: e, mags: mags}
}

// escalate returns a copy of the postings escalated on 'on'. Dates must not
// decrease from one call to the next.
func (x *escalator) escalate(postings []Posting, on date.Date) []Posting {
	out := slices.Clone(postings)
	n := x.e.cycles(on)
	if n == 0 {
		return out
	}
	for ; x.cycles < n; x.cycles++ {
		for i, m := range x.mags {
			x.mags[i] = x.e.grow(m)
		}
	}
	for i, p := range out {
		mag := x.mags[i].Round(escalationPrecision)
		if p.Amount.IsNegative() {
			mag = mag.Neg()
		}
		out[i].Amount = Money{value: mag, cur: p.Amount.cur}
	}
	return out
}

// Rule describes a repeating transaction.
type Rule struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Frequency
	Start      date.Date   `json:"start"`
	End        End         `json:"end,omitzero"`
	Template   Template    `json:"template"`
	Escalation *Escalation `json:"escalation,omitempty"`
}

func (r Rule) String() string { return fmt.Sprintf("%s (%v)", r.ID, r.Frequency) }

// Check verifies the rule's own fields. The template is checked when transactions are generated.
func (r Rule) Check() error {
	var errs []error
	if r.ID == "" {
		errs = append(errs, errors.New("rule id is empty"))
	}
	if r.Start.IsZero() {
		errs = append(errs, fmt.Errorf("rule %q has no start date", r.ID))
	}
	if r.Interval < 0 {
		errs = append(errs, fmt.Errorf("rule %q: negative interval %d", r.ID, r.Interval))
	}
	if r.End.Count < 0 {
		errs = append(errs, fmt.Errorf("rule %q: negative count %d", r.ID, r.End.Count))
	}
	if r.Unit < Day || r.Unit > Year {
		errs = append(errs, fmt.Errorf("rule %q: invalid frequency %v", r.ID, r.Unit))
	}
	if e := r.Escalation; e != nil {
		if e.Start.IsZero() {
			errs = append(errs, fmt.Errorf("rule %q: escalation has no start date", r.ID))
		}
		if e.Interval < 0 {
			errs = append(errs, fmt.Errorf("rule %q: negative escalation interval %d", r.ID, e.Interval))
		}
	}
	return errors.Join(errs...)
}

// occurrence returns the k-th occurrence, false if the end condition is met.
func (r Rule) occurrence(k int) (date.Date, bool) {
	if r.End.Count > 0 && k >= r.End.Count {
		return date.Date{}, false
	}
	d := r.nth(r.Start, k)
	if !r.End.Until.IsZero() && d.After(r.End.Until) {
		return date.Date{}, false
	}
	return d, true
}

// NextOccurrence returns the first scheduled date strictly after 'after'.
// It returns false once the rule's end condition is met.
func NextOccurrence(r Rule, after date.Date) (date.Date, bool) {
	return r.occurrence(r.firstAfter(r.Start, after))
}

// Occurrences iterates over the rule's dates within the range, in order.
func Occurrences(r Rule, within date.Range) iter.Seq[date.Date] {
	return func(yield func(date.Date) bool) {
		for k := r.firstAfter(r.Start, within.From.Add(-1)); ; k++ {
			on, ok := r.occurrence(k)
			if !ok || on.After(within.To) {
				return
			}
			if !yield(on) {
				return
			}
		}
	}
}
