package timeframe

import (
	"testing"

	"github.com/Karthikn9883/fpna-agent/internal/core"
)

func months(ss ...string) []core.Month {
	out := make([]core.Month, 0, len(ss))
	for _, s := range ss {
		m, ok := core.ParseMonth(s)
		if !ok {
			panic("bad test month: " + s)
		}
		out = append(out, m)
	}
	return out
}

func strs(ms []core.Month) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.String())
	}
	return out
}

var halfYear = months("2025-01", "2025-02", "2025-03", "2025-04", "2025-05", "2025-06")

func TestResolve(t *testing.T) {
	cases := []struct {
		name       string
		text       string
		available  []core.Month
		want       []string
		recognized bool
	}{
		{"last n", "revenue for the last 3 months", halfYear,
			[]string{"2025-04", "2025-05", "2025-06"}, true},
		{"last n clamps to available", "last 99 months of opex", halfYear,
			[]string{"2025-01", "2025-02", "2025-03", "2025-04", "2025-05", "2025-06"}, true},
		{"last zero is recognized and empty", "last 0 months", halfYear,
			[]string{}, true},
		{"quarter", "how did we do in Q2 2025", halfYear,
			[]string{"2025-04", "2025-05", "2025-06"}, true},
		{"quarter keeps missing months", "Q4 2025 revenue", halfYear,
			[]string{"2025-10", "2025-11", "2025-12"}, true},
		{"quarter wins over bare month", "June Q1 2025", halfYear,
			[]string{"2025-01", "2025-02", "2025-03"}, true},
		{"last n wins over quarter", "last 2 months of Q1 2025", halfYear,
			[]string{"2025-05", "2025-06"}, true},
		{"month and year", "revenue vs budget for June 2025", halfYear,
			[]string{"2025-06"}, true},
		{"abbreviated month and year", "opex in Jun 2025", halfYear,
			[]string{"2025-06"}, true},
		{"sept spelling", "sept 2025 breakdown", halfYear,
			[]string{"2025-09"}, true},
		{"month year needs a real month", "report for version 2025", halfYear,
			nil, false},
		{"iso dash", "show 2025-04 please", halfYear,
			[]string{"2025-04"}, true},
		{"iso slash", "show 2025/04 please", halfYear,
			[]string{"2025-04"}, true},
		{"iso needs two digit month", "show 2025-4 please", halfYear,
			nil, false},
		{"iso rejects month 13", "show 2025-13 please", halfYear,
			nil, false},
		{"bare month picks latest occurrence", "what happened in feb",
			months("2024-02", "2024-03", "2025-02", "2025-03"),
			[]string{"2025-02"}, true},
		{"bare month without data falls through", "december numbers", halfYear,
			nil, false},
		{"bare month is a whole word", "gross margin trend", halfYear,
			nil, false},
		{"this month", "where are we this month", halfYear,
			[]string{"2025-06"}, true},
		{"right now", "cash position right now", halfYear,
			[]string{"2025-06"}, true},
		{"nothing recognized", "show me the numbers", halfYear,
			nil, false},
		{"empty text", "", halfYear, nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(tc.text, tc.available)
			if got.Recognized != tc.recognized {
				t.Fatalf("Resolve(%q) recognized = %v, want %v", tc.text, got.Recognized, tc.recognized)
			}
			if !tc.recognized {
				return
			}
			gs := strs(got.Months)
			if len(gs) != len(tc.want) {
				t.Fatalf("Resolve(%q) = %v, want %v", tc.text, gs, tc.want)
			}
			for i := range gs {
				if gs[i] != tc.want[i] {
					t.Fatalf("Resolve(%q) = %v, want %v", tc.text, gs, tc.want)
				}
			}
		})
	}
}

func TestResolveSortsUnsortedInput(t *testing.T) {
	shuffled := months("2025-06", "2025-01", "2025-04", "2025-02", "2025-05", "2025-03")
	got := Resolve("last 2 months", shuffled)
	if !got.Recognized {
		t.Fatal("expected recognition")
	}
	gs := strs(got.Months)
	if len(gs) != 2 || gs[0] != "2025-05" || gs[1] != "2025-06" {
		t.Fatalf("got %v, want [2025-05 2025-06]", gs)
	}
}

func TestResolveDoesNotMutateAvailable(t *testing.T) {
	shuffled := months("2025-06", "2025-01")
	Resolve("last 1 month", shuffled)
	if shuffled[0].String() != "2025-06" {
		t.Fatal("Resolve reordered the caller's slice")
	}
}

func TestRulePrecedenceOrder(t *testing.T) {
	want := []string{"last-n-months", "quarter", "month-year", "iso-month", "bare-month", "this-month"}
	if len(rules) != len(want) {
		t.Fatalf("rules = %d entries, want %d", len(rules), len(want))
	}
	for i, r := range rules {
		if r.name != want[i] {
			t.Fatalf("rules[%d] = %q, want %q", i, r.name, want[i])
		}
	}
}

func TestExtractDateLiteral(t *testing.T) {
	cases := []struct {
		text      string
		wantMonth string
		wantYear  int
	}{
		{"marketing spend in June 2025", "2025-06", 2025},
		{"marketing spend in jun 2025", "2025-06", 2025},
		{"spend in 2025-06", "2025-06", 2025},
		{"spend in 2025/6", "2025-06", 2025},
		{"spend in 2025-6", "2025-06", 2025},
		{"total for 2025", "", 2025},
		{"month 2025-13 is junk", "", 2025},
		{"all time marketing spend", "", 0},
		{"", "", 0},
	}
	for _, tc := range cases {
		got := ExtractDateLiteral(tc.text)
		if tc.wantMonth == "" && got.HasMonth {
			t.Fatalf("ExtractDateLiteral(%q) found month %v, want none", tc.text, got.Month)
		}
		if tc.wantMonth != "" {
			if !got.HasMonth || got.Month.String() != tc.wantMonth {
				t.Fatalf("ExtractDateLiteral(%q) month = %v (has=%v), want %s", tc.text, got.Month, got.HasMonth, tc.wantMonth)
			}
		}
		if tc.wantYear == 0 && got.HasYear {
			t.Fatalf("ExtractDateLiteral(%q) found year %d, want none", tc.text, got.Year)
		}
		if tc.wantYear != 0 && (!got.HasYear || got.Year != tc.wantYear) {
			t.Fatalf("ExtractDateLiteral(%q) year = %d (has=%v), want %d", tc.text, got.Year, got.HasYear, tc.wantYear)
		}
	}
}
