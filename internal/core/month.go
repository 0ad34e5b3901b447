package core

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Month identifies a calendar month. The zero value means "no month".
type Month struct {
	Year  int
	Month time.Month
}

// NewMonth builds a Month from a year and a 1-12 month number.
func NewMonth(year, month int) Month {
	return Month{Year: year, Month: time.Month(month)}
}

// IsZero reports whether m carries no month.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// String returns the canonical YYYY-MM form.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MarshalJSON encodes the month as its canonical YYYY-MM string.
func (m Month) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// Before reports whether m is strictly earlier than other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// After reports whether m is strictly later than other.
func (m Month) After(other Month) bool {
	return other.Before(m)
}

// Next returns the month immediately after m.
func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// monthLayouts are tried in order by the general parse fallback. Each is
// truncated to year+month after parsing.
var monthLayouts = []string{
	"2006-01",
	"2006/01",
	"2006-1",
	"2006/1",
	"2006-01-02",
	"2006/01/02",
	"01/2006",
	"Jan 2006",
	"January 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// ParseMonth coerces arbitrary date-like text into a Month.
//
// Exact 7-character YYYY-MM input takes a digit-only fast path that never
// reaches the layout list. Anything else is tried against monthLayouts and
// truncated to year+month. Unparseable or empty input returns ok=false;
// the caller decides whether a missing month is fatal (the FX join treats
// such rows as unmatched).
func ParseMonth(s string) (Month, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Month{}, false
	}
	if len(s) == 7 && s[4] == '-' {
		if m, ok := parseExactYearMonth(s); ok {
			return m, true
		}
	}
	for _, layout := range monthLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Year() < 1 {
			continue
		}
		return Month{Year: t.Year(), Month: t.Month()}, true
	}
	return Month{}, false
}

func parseExactYearMonth(s string) (Month, bool) {
	var year, month int
	for i := 0; i < 4; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return Month{}, false
		}
		year = year*10 + int(c-'0')
	}
	for i := 5; i < 7; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return Month{}, false
		}
		month = month*10 + int(c-'0')
	}
	if year < 1 || month < 1 || month > 12 {
		return Month{}, false
	}
	return Month{Year: year, Month: time.Month(month)}, true
}

// SortMonths orders months ascending in place and returns the slice.
func SortMonths(months []Month) []Month {
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	return months
}
