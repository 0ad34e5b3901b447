package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out float64
		ok  bool
	}{
		{"1200", 1200, true},
		{"1234.56", 1234.56, true},
		{"1,234.56", 1234.56, true},
		{"$1,234", 1234, true},
		{"-$500", -500, true},
		{"$-500", -500, true},
		{"+25.5", 25.5, true},
		{" 2.50 ", 2.5, true},
		{"", 0, true},
		{"0", 0, true},
		{"12.3.4", 0, false},
		{"abc", 0, false},
		{"$", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("ParseAmount(%q) = %v, %v; want %v", tc.in, got, err, tc.out)
			}
		} else if err == nil {
			t.Fatalf("ParseAmount(%q) expected error, got %v", tc.in, got)
		}
	}
}

func TestFormatUSD(t *testing.T) {
	cases := []struct {
		in  float64
		out string
	}{
		{0, "$0"},
		{950, "$950"},
		{999.6, "$1,000"},
		{1200, "$1.2K"},
		{25500, "$25.5K"},
		{999999, "$1000.0K"},
		{1000000, "$1.0M"},
		{2345678, "$2.3M"},
		{-1200000, "-$1.2M"},
		{-800, "-$800"},
	}
	for _, tc := range cases {
		if got := FormatUSD(tc.in); got != tc.out {
			t.Fatalf("FormatUSD(%v) = %q, want %q", tc.in, got, tc.out)
		}
	}
}
