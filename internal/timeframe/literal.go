package timeframe

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Karthikn9883/fpna-agent/internal/core"
)

// DateLiteral is an explicit date mention lifted from question text.
// Analysis queries use it to pre-filter rows to one month or one year
// before aggregating. A month match always fixes the year too; a bare
// year sets only the year.
type DateLiteral struct {
	Month    core.Month
	HasMonth bool
	Year     int
	HasYear  bool
}

// IsZero reports whether no date literal was found.
func (l DateLiteral) IsZero() bool {
	return !l.HasMonth && !l.HasYear
}

var (
	litMonthYearRx = regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)\s+(20\d{2})\b`)
	litISORx       = regexp.MustCompile(`\b(20\d{2})[-/](\d{1,2})\b`)
	litYearRx      = regexp.MustCompile(`\b(20\d{2})\b`)
)

// ExtractDateLiteral scans text for an explicit month or year. Named
// month-year wins over an ISO form, which wins over a bare year; an ISO
// form with an out-of-range month falls back to its year.
func ExtractDateLiteral(text string) DateLiteral {
	q := strings.ToLower(text)
	if m := litMonthYearRx.FindStringSubmatch(q); m != nil {
		if num, ok := monthNumber(m[1]); ok {
			year, _ := strconv.Atoi(m[2])
			return DateLiteral{
				Month:    core.Month{Year: year, Month: num},
				HasMonth: true,
				Year:     year,
				HasYear:  true,
			}
		}
	}
	if m := litISORx.FindStringSubmatch(q); m != nil {
		year, _ := strconv.Atoi(m[1])
		num, _ := strconv.Atoi(m[2])
		if num >= 1 && num <= 12 {
			return DateLiteral{
				Month:    core.NewMonth(year, num),
				HasMonth: true,
				Year:     year,
				HasYear:  true,
			}
		}
	}
	if m := litYearRx.FindStringSubmatch(q); m != nil {
		year, _ := strconv.Atoi(m[1])
		return DateLiteral{Year: year, HasYear: true}
	}
	return DateLiteral{}
}
