package core

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
)

// Fingerprint hashes the raw tables into a stable identity. Lines are
// sorted before hashing so row order never matters, while any cell change
// produces a new fingerprint.
func (t RawTables) Fingerprint() string {
	lines := make([]string, 0, len(t.Actuals)+len(t.Budget)+len(t.Fx)+len(t.Cash))
	for _, r := range t.Actuals {
		lines = append(lines, "a|"+r.RawMonth+"|"+r.Entity+"|"+r.Category+"|"+formatFloat(r.Amount)+"|"+r.Currency)
	}
	for _, r := range t.Budget {
		lines = append(lines, "b|"+r.RawMonth+"|"+r.Entity+"|"+r.Category+"|"+formatFloat(r.Amount)+"|"+r.Currency)
	}
	for _, r := range t.Fx {
		lines = append(lines, "f|"+r.RawMonth+"|"+r.Currency+"|"+formatFloat(r.RateToUSD))
	}
	for _, r := range t.Cash {
		lines = append(lines, "c|"+r.RawMonth+"|"+r.Entity+"|"+formatFloat(r.CashUSD))
	}
	sort.Strings(lines)

	h := sha256.New()
	for _, line := range lines {
		h.Write([]byte(line))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
