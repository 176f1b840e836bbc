package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	today := Today()

	tests := []struct {
		input    string
		expected Date
		err      bool
	}{
		{"2025-01-15", New(2025, time.January, 15), false},
		{"2025-7-1", New(2025, time.July, 1), false},
		{"2024-01-31T00:00:00Z", New(2024, time.January, 31), false},
		{"invalid-date", Date{}, true},
		{"0d", today, false},
		{"-1d", today.Add(-1), false},
		{"+2w", today.Add(14), false},
		{"+1m", today.ShiftMonths(1), false},
		{"-1q", today.ShiftMonths(-3), false},
		{"+1y", today.ShiftYears(1), false},
		{"1d", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.err {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.err)
			}
			if got != tt.expected {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestShiftMonths(t *testing.T) {
	tests := []struct {
		from   Date
		months int
		want   Date
	}{
		{New(2024, 1, 31), 1, New(2024, 2, 29)},
		{New(2023, 1, 31), 1, New(2023, 2, 28)},
		{New(2024, 1, 31), 2, New(2024, 3, 31)},
		{New(2024, 1, 31), 3, New(2024, 4, 30)},
		{New(2024, 12, 15), 1, New(2025, 1, 15)},
		{New(2024, 3, 31), -1, New(2024, 2, 29)},
		{New(2024, 2, 29), 12, New(2025, 2, 28)},
	}
	for _, tt := range tests {
		if got := tt.from.ShiftMonths(tt.months); got != tt.want {
			t.Errorf("%v.ShiftMonths(%d) = %v, want %v", tt.from, tt.months, got, tt.want)
		}
	}
}

func TestCompare(t *testing.T) {
	a, b := New(2024, 2, 29), New(2024, 3, 1)
	if !a.Before(b) || a.After(b) || a.Compare(a) != 0 {
		t.Errorf("wrong ordering between %v and %v", a, b)
	}
	if got := b.DaysSince(a); got != 1 {
		t.Errorf("DaysSince() = %d, want 1", got)
	}
	if got := New(2025, 1, 10).MonthsSince(New(2024, 11, 30)); got != 2 {
		t.Errorf("MonthsSince() = %d, want 2", got)
	}
}

func TestDateJSON(t *testing.T) {
	in := New(2024, 2, 9)
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"2024-02-09"` {
		t.Errorf("json.Marshal() = %s", data)
	}
	var out Date
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("round trip gives %v, want %v", out, in)
	}
}
