// Package timeframe resolves natural-language time expressions against
// the months a dataset actually contains.
package timeframe

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Karthikn9883/fpna-agent/internal/core"
)

// Resolution is the outcome of resolving a time expression.
//
// Recognized distinguishes "no time expression found" from "expression
// found but it selects nothing". Callers that want a default window
// (latest month, trailing quarter) apply it themselves; the resolver
// never invents one.
type Resolution struct {
	Months     []core.Month
	Recognized bool
}

// rule matches one family of time expressions. Rules run in order and
// the first match wins, so the slice below is the precedence contract.
type rule struct {
	name    string
	resolve func(q string, available []core.Month) ([]core.Month, bool)
}

var rules = []rule{
	{"last-n-months", resolveLastN},
	{"quarter", resolveQuarter},
	{"month-year", resolveMonthYear},
	{"iso-month", resolveISOMonth},
	{"bare-month", resolveBareMonth},
	{"this-month", resolveThisMonth},
}

// Resolve maps question text to a set of calendar months, ascending.
//
// Windowing expressions ("last 3 months", "this month", a bare month
// name) resolve against available, which should be the dataset's
// distinct months. Explicit calendar expressions ("Q2 2025", "June
// 2025", "2025-06") resolve by the calendar alone and may name months
// the dataset does not contain; downstream aggregation then comes back
// empty rather than erroring.
func Resolve(text string, available []core.Month) Resolution {
	q := strings.ToLower(text)
	sorted := core.SortMonths(append([]core.Month(nil), available...))
	for _, r := range rules {
		if months, ok := r.resolve(q, sorted); ok {
			return Resolution{Months: months, Recognized: true}
		}
	}
	return Resolution{}
}

var lastNRx = regexp.MustCompile(`last\s+(\d+)\s+months?`)

func resolveLastN(q string, available []core.Month) ([]core.Month, bool) {
	m := lastNRx.FindStringSubmatch(q)
	if m == nil {
		return nil, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, false
	}
	if n > len(available) {
		n = len(available)
	}
	return append([]core.Month{}, available[len(available)-n:]...), true
}

var quarterRx = regexp.MustCompile(`q([1-4])\s*(\d{4})`)

// resolveQuarter expands Q<n> <year> to its three calendar months. The
// result is deliberately not filtered by availability: asking for a
// quarter with no data should read as "no data for Q3 2025", not as a
// silently narrower window.
func resolveQuarter(q string, _ []core.Month) ([]core.Month, bool) {
	m := quarterRx.FindStringSubmatch(q)
	if m == nil {
		return nil, false
	}
	quarter, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	first := (quarter-1)*3 + 1
	months := make([]core.Month, 0, 3)
	for i := 0; i < 3; i++ {
		months = append(months, core.NewMonth(year, first+i))
	}
	return months, true
}

var monthYearRx = regexp.MustCompile(`\b([a-z]+)\s+(\d{4})\b`)

func resolveMonthYear(q string, _ []core.Month) ([]core.Month, bool) {
	for _, m := range monthYearRx.FindAllStringSubmatch(q, -1) {
		month, ok := monthNumber(m[1])
		if !ok {
			continue
		}
		year, _ := strconv.Atoi(m[2])
		return []core.Month{{Year: year, Month: month}}, true
	}
	return nil, false
}

var isoMonthRx = regexp.MustCompile(`(20\d{2})[-/](0[1-9]|1[0-2])`)

func resolveISOMonth(q string, _ []core.Month) ([]core.Month, bool) {
	m := isoMonthRx.FindStringSubmatch(q)
	if m == nil {
		return nil, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	return []core.Month{core.NewMonth(year, month)}, true
}

var bareMonthRx = regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)\b`)

// resolveBareMonth handles a month name with no year. January is
// checked before February and so on, and the rule only matches when
// some available month carries that month number; the latest such
// occurrence wins.
func resolveBareMonth(q string, available []core.Month) ([]core.Month, bool) {
	var mentioned [13]bool
	for _, tok := range bareMonthRx.FindAllString(q, -1) {
		if n, ok := monthNumber(tok); ok {
			mentioned[n] = true
		}
	}
	for n := time.January; n <= time.December; n++ {
		if !mentioned[n] {
			continue
		}
		latest, found := core.Month{}, false
		for _, m := range available {
			if m.Month == n {
				latest, found = m, true
			}
		}
		if found {
			return []core.Month{latest}, true
		}
	}
	return nil, false
}

var nowPhrases = []string{"this month", "current month", "right now"}

func resolveThisMonth(q string, available []core.Month) ([]core.Month, bool) {
	for _, phrase := range nowPhrases {
		if !strings.Contains(q, phrase) {
			continue
		}
		if len(available) == 0 {
			return []core.Month{}, true
		}
		return []core.Month{available[len(available)-1]}, true
	}
	return nil, false
}

// monthTokens lists the lowercase spellings accepted for each month.
var monthTokens = [12]struct{ full, abbr string }{
	{"january", "jan"}, {"february", "feb"}, {"march", "mar"},
	{"april", "apr"}, {"may", "may"}, {"june", "jun"},
	{"july", "jul"}, {"august", "aug"}, {"september", "sep"},
	{"october", "oct"}, {"november", "nov"}, {"december", "dec"},
}

func monthNumber(token string) (time.Month, bool) {
	if token == "sept" {
		return time.September, true
	}
	for i, names := range monthTokens {
		if token == names.full || token == names.abbr {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}
