// Package core provides money parsing and formatting utilities.
//
// Amounts are float64 in the reporting currency. Parsing accepts the
// cell formats sheet and CSV exports actually contain; formatting
// follows the compact form answers use.
package core

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidAmount marks a cell that does not parse as a monetary amount.
var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount converts a sheet or CSV cell to an amount. It accepts an
// optional leading sign, a $ prefix, thousands separators ("1,234.56")
// and surrounding whitespace. A blank cell is zero: sparse sheets leave
// amounts empty rather than writing 0.
func ParseAmount(s string) (float64, error) {
	text := strings.TrimSpace(s)
	if text == "" {
		return 0, nil
	}
	neg := false
	switch {
	case strings.HasPrefix(text, "-"):
		neg = true
		text = text[1:]
	case strings.HasPrefix(text, "+"):
		text = text[1:]
	}
	text = strings.TrimSpace(strings.TrimPrefix(text, "$"))
	text = strings.ReplaceAll(text, ",", "")
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, strings.TrimSpace(s))
	}
	if neg {
		v = -v
	}
	return v, nil
}

// FormatUSD renders a USD amount in compact board form: one million and
// up as $X.XM, one thousand and up as $X.XK, anything smaller grouped
// as $X,XXX with no decimals. The sign prefix survives compaction.
func FormatUSD(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch {
	case v >= 1e6:
		return fmt.Sprintf("%s$%.1fM", sign, v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%s$%.1fK", sign, v/1e3)
	default:
		return sign + "$" + groupThousands(v)
	}
}

// groupThousands renders v with no decimals and comma separators. Only
// values under a thousand reach it, but rounding can push 999.5 up to
// 1,000 so the grouping stays.
func groupThousands(v float64) string {
	s := strconv.FormatFloat(math.Round(v), 'f', -1, 64)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
