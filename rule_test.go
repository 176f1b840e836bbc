package cashflow

import (
	"slices"
	"testing"

	"github.com/etnz/cashflow/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dates(seq func(func(date.Date) bool)) []string {
	var got []string
	for d := range seq {
		got = append(got, d.String())
	}
	return got
}

func TestOccurrences(t *testing.T) {
	testCases := []struct {
		name   string
		rule   Rule
		within date.Range
		want   []string
	}{
		{
			name:   "monthly on day 31",
			rule:   Rule{ID: "r", Frequency: Monthly, Start: D("2024-01-31")},
			within: date.Range{From: D("2024-01-31"), To: D("2024-04-30")},
			want:   []string{"2024-01-31", "2024-02-29", "2024-03-31", "2024-04-30"},
		},
		{
			name:   "weekly",
			rule:   Rule{ID: "r", Frequency: Weekly, Start: D("2024-01-01")},
			within: date.Range{From: D("2024-01-01"), To: D("2024-01-31")},
			want:   []string{"2024-01-01", "2024-01-08", "2024-01-15", "2024-01-22", "2024-01-29"},
		},
		{
			name:   "every 10 days",
			rule:   Rule{ID: "r", Frequency: EveryDays(10), Start: D("2024-02-20")},
			within: date.Range{From: D("2024-02-20"), To: D("2024-03-20")},
			want:   []string{"2024-02-20", "2024-03-01", "2024-03-11"},
		},
		{
			name:   "quarterly",
			rule:   Rule{ID: "r", Frequency: Frequency{Unit: Month, Interval: 3}, Start: D("2024-01-15")},
			within: date.Range{From: D("2024-01-01"), To: D("2024-12-31")},
			want:   []string{"2024-01-15", "2024-04-15", "2024-07-15", "2024-10-15"},
		},
		{
			name:   "yearly on leap day",
			rule:   Rule{ID: "r", Frequency: Yearly, Start: D("2024-02-29")},
			within: date.Range{From: D("2024-01-01"), To: D("2028-12-31")},
			want:   []string{"2024-02-29", "2025-02-28", "2026-02-28", "2027-02-28", "2028-02-29"},
		},
		{
			name:   "range starts after the rule",
			rule:   Rule{ID: "r", Frequency: Monthly, Start: D("2024-01-31")},
			within: date.Range{From: D("2024-03-01"), To: D("2024-06-30")},
			want:   []string{"2024-03-31", "2024-04-30", "2024-05-31", "2024-06-30"},
		},
		{
			name:   "count",
			rule:   Rule{ID: "r", Frequency: Daily, Start: D("2024-01-01"), End: End{Count: 3}},
			within: date.Range{From: D("2024-01-01"), To: D("2024-12-31")},
			want:   []string{"2024-01-01", "2024-01-02", "2024-01-03"},
		},
		{
			name:   "count is counted from the start",
			rule:   Rule{ID: "r", Frequency: Daily, Start: D("2024-01-01"), End: End{Count: 3}},
			within: date.Range{From: D("2024-01-02"), To: D("2024-12-31")},
			want:   []string{"2024-01-02", "2024-01-03"},
		},
		{
			name:   "until is included",
			rule:   Rule{ID: "r", Frequency: Monthly, Start: D("2024-01-10"), End: End{Until: D("2024-03-10")}},
			within: date.Range{From: D("2024-01-01"), To: D("2024-12-31")},
			want:   []string{"2024-01-10", "2024-02-10", "2024-03-10"},
		},
		{
			name:   "first end condition wins",
			rule:   Rule{ID: "r", Frequency: Monthly, Start: D("2024-01-10"), End: End{Count: 2, Until: D("2024-12-31")}},
			within: date.Range{From: D("2024-01-01"), To: D("2024-12-31")},
			want:   []string{"2024-01-10", "2024-02-10"},
		},
		{
			name:   "horizon before start",
			rule:   Rule{ID: "r", Frequency: Monthly, Start: D("2024-01-10")},
			within: date.Range{From: D("2023-01-01"), To: D("2023-12-31")},
			want:   nil,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, dates(Occurrences(tc.rule, tc.within)))
		})
	}
}

func TestNextOccurrence(t *testing.T) {
	monthly := Rule{ID: "r", Frequency: Monthly, Start: D("2024-01-31"), End: End{Until: D("2024-06-30")}}
	testCases := []struct {
		after string
		want  string // empty when there is none
	}{
		{"2023-06-01", "2024-01-31"},
		{"2024-01-30", "2024-01-31"},
		{"2024-01-31", "2024-02-29"},
		{"2024-02-29", "2024-03-31"},
		{"2024-03-01", "2024-03-31"},
		{"2024-05-31", "2024-06-30"},
		{"2024-06-30", ""},
		{"2025-01-01", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.after, func(t *testing.T) {
			got, ok := NextOccurrence(monthly, D(tc.after))
			if tc.want == "" {
				assert.False(t, ok, "got %v", got)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestNextOccurrenceMatchesOccurrences(t *testing.T) {
	rules := []Rule{
		{ID: "daily", Frequency: Daily, Start: D("2024-01-01")},
		{ID: "biweekly", Frequency: Frequency{Unit: Week, Interval: 2}, Start: D("2024-01-03")},
		{ID: "monthly", Frequency: Monthly, Start: D("2024-01-31")},
		{ID: "bimonthly", Frequency: Frequency{Unit: Month, Interval: 2}, Start: D("2023-12-30")},
		{ID: "yearly", Frequency: Yearly, Start: D("2020-02-29")},
	}
	within := date.Range{From: D("2020-01-01"), To: D("2025-12-31")}
	for _, r := range rules {
		t.Run(r.ID, func(t *testing.T) {
			all := slices.Collect(Occurrences(r, within))
			require.NotEmpty(t, all)
			for i := 1; i < len(all); i++ {
				got, ok := NextOccurrence(r, all[i-1])
				require.True(t, ok)
				assert.Equal(t, all[i], got, "after %v", all[i-1])
				// any day in between leads to the same occurrence
				got, ok = NextOccurrence(r, all[i].Add(-1))
				require.True(t, ok)
				assert.Equal(t, all[i], got)
			}
		})
	}
}

func TestRuleCheck(t *testing.T) {
	assert.NoError(t, Rule{ID: "r", Frequency: Monthly, Start: D("2024-01-01")}.Check())
	assert.Error(t, Rule{Frequency: Monthly, Start: D("2024-01-01")}.Check())
	assert.Error(t, Rule{ID: "r", Frequency: Monthly}.Check())
	assert.Error(t, Rule{ID: "r", Frequency: Frequency{Unit: Day, Interval: -2}, Start: D("2024-01-01")}.Check())
	assert.Error(t, Rule{ID: "r", Frequency: Frequency{Unit: Unit(7)}, Start: D("2024-01-01")}.Check())
	assert.Error(t, Rule{ID: "r", Frequency: Monthly, Start: D("2024-01-01"), Escalation: &Escalation{Frequency: Yearly}}.Check())
}

func TestFrequencyString(t *testing.T) {
	assert.Equal(t, "monthly", Monthly.String())
	assert.Equal(t, "monthly", Frequency{Unit: Month}.String())
	assert.Equal(t, "every 3 months", Frequency{Unit: Month, Interval: 3}.String())
	assert.Equal(t, "every 10 days", EveryDays(10).String())
}
