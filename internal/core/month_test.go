package core

import (
	"testing"
	"time"
)

func TestParseMonth(t *testing.T) {
	cases := []struct {
		in    string
		year  int
		month time.Month
		ok    bool
	}{
		{"2025-06", 2025, time.June, true}, // fast path
		{" 2025-06 ", 2025, time.June, true},
		{"2025/06", 2025, time.June, true},
		{"2025-6", 2025, time.June, true},
		{"2025-06-15", 2025, time.June, true},
		{"2025/06/15", 2025, time.June, true},
		{"06/2025", 2025, time.June, true},
		{"Jun 2025", 2025, time.June, true},
		{"June 2025", 2025, time.June, true},
		{"15 Jun 2025", 2025, time.June, true},
		{"Jun 15, 2025", 2025, time.June, true},
		{"2025-06-15T10:30:00Z", 2025, time.June, true},
		{"2023-12", 2023, time.December, true},
		{"2025-00", 0, 0, false},
		{"2025-13", 0, 0, false},
		{"abcd-06", 0, 0, false},
		{"2025", 0, 0, false}, // bare year is not a month
		{"garbage", 0, 0, false},
		{"", 0, 0, false},
		{"   ", 0, 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseMonth(tc.in)
		if ok != tc.ok {
			t.Fatalf("ParseMonth(%q) ok = %v, want %v", tc.in, ok, tc.ok)
		}
		if !tc.ok {
			continue
		}
		if got.Year != tc.year || got.Month != tc.month {
			t.Fatalf("ParseMonth(%q) = %v, want %04d-%02d", tc.in, got, tc.year, tc.month)
		}
	}
}

func TestParseMonthFastPathSkipsLayouts(t *testing.T) {
	// Exactly 7 chars with a dash at index 4 but non-digit content must not
	// accidentally parse through a layout.
	if _, ok := ParseMonth("20x5-06"); ok {
		t.Fatal("expected unparseable")
	}
}

func TestMonthString(t *testing.T) {
	m := NewMonth(2025, 6)
	if got := m.String(); got != "2025-06" {
		t.Fatalf("String() = %q, want %q", got, "2025-06")
	}
	if got := NewMonth(980, 11).String(); got != "0980-11" {
		t.Fatalf("String() = %q, want %q", got, "0980-11")
	}
}

func TestMonthOrdering(t *testing.T) {
	a := NewMonth(2024, 12)
	b := NewMonth(2025, 1)
	if !a.Before(b) || b.Before(a) {
		t.Fatalf("ordering broken: %v vs %v", a, b)
	}
	if !b.After(a) {
		t.Fatalf("After broken: %v vs %v", b, a)
	}
	if got := a.Next(); got != b {
		t.Fatalf("Next() = %v, want %v", got, b)
	}
}

func TestSortMonths(t *testing.T) {
	months := []Month{NewMonth(2025, 3), NewMonth(2024, 12), NewMonth(2025, 1)}
	SortMonths(months)
	want := []Month{NewMonth(2024, 12), NewMonth(2025, 1), NewMonth(2025, 3)}
	for i := range want {
		if months[i] != want[i] {
			t.Fatalf("sorted[%d] = %v, want %v", i, months[i], want[i])
		}
	}
}

func TestMonthMarshalJSON(t *testing.T) {
	b, err := NewMonth(2025, 6).MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2025-06"` {
		t.Fatalf("json = %s", b)
	}
}
