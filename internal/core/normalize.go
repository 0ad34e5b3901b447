package core

import (
	"fmt"
	"sort"
	"strings"
)

// FxPair names one (month, currency) combination. Month is the canonical
// YYYY-MM form when the sheet value parsed, otherwise the raw cell text.
type FxPair struct {
	Month    string
	Currency string
}

// MissingFxRateError reports every distinct (month, currency) pair that
// appeared in actuals or budget without FX coverage. Normalization never
// defaults a missing rate to 1.0 or drops the row.
type MissingFxRateError struct {
	Pairs []FxPair
}

func (e *MissingFxRateError) Error() string {
	parts := make([]string, len(e.Pairs))
	for i, p := range e.Pairs {
		parts[i] = fmt.Sprintf("(%s, %s)", p.Month, p.Currency)
	}
	return "missing fx rates for: " + strings.Join(parts, ", ")
}

// fxKey identifies one rate in the (month, currency) index.
type fxKey struct {
	month    string
	currency string
}

// BuildDataset normalizes the four raw tables into an immutable Dataset.
//
// Actuals and budget rows are left-joined to the FX table on
// (month, currency), currency defaulting to the reporting currency when
// blank, and converted with amount_usd = amount * rate_to_usd. Rows whose
// pair has no rate are collected across both tables and reported together
// in a MissingFxRateError; no dataset is produced for that input. Cash
// rows carry USD already and skip the FX step; cash rows whose month does
// not parse are dropped.
func BuildDataset(t RawTables) (*Dataset, error) {
	rates, err := indexFxRates(t.Fx)
	if err != nil {
		return nil, err
	}

	rows := make([]CanonicalRow, 0, len(t.Actuals)+len(t.Budget))
	missing := map[fxKey]struct{}{}
	rows = appendNormalized(rows, t.Actuals, SourceActuals, rates, missing)
	rows = appendNormalized(rows, t.Budget, SourceBudget, rates, missing)
	if len(missing) > 0 {
		return nil, &MissingFxRateError{Pairs: sortedPairs(missing)}
	}

	cash := normalizeCash(t.Cash)
	return &Dataset{
		rows:        rows,
		cash:        cash,
		months:      distinctMonths(rows),
		fingerprint: t.Fingerprint(),
	}, nil
}

// indexFxRates builds the (month, currency) lookup, enforcing the
// many-to-one join cardinality. Rates whose month does not parse are
// skipped: they can never cover a ledger row.
func indexFxRates(fx []FxRate) (map[fxKey]float64, error) {
	rates := make(map[fxKey]float64, len(fx))
	for _, r := range fx {
		m, ok := ParseMonth(r.RawMonth)
		if !ok {
			continue
		}
		key := fxKey{month: m.String(), currency: currencyOrDefault(r.Currency)}
		if _, dup := rates[key]; dup {
			return nil, fmt.Errorf("%w: (%s, %s)", ErrDuplicateFxRate, key.month, key.currency)
		}
		rates[key] = r.RateToUSD
	}
	return rates, nil
}

func appendNormalized(dst []CanonicalRow, src []LedgerRow, source Source, rates map[fxKey]float64, missing map[fxKey]struct{}) []CanonicalRow {
	for _, r := range src {
		currency := currencyOrDefault(r.Currency)
		m, ok := ParseMonth(r.RawMonth)
		monthKey := strings.TrimSpace(r.RawMonth)
		if ok {
			monthKey = m.String()
		}
		rate, covered := rates[fxKey{month: monthKey, currency: currency}]
		if !covered || !ok {
			missing[fxKey{month: monthKey, currency: currency}] = struct{}{}
			continue
		}
		dst = append(dst, CanonicalRow{
			Month:     m,
			Entity:    strings.TrimSpace(r.Entity),
			Category:  strings.TrimSpace(r.Category),
			AmountUSD: r.Amount * rate,
			Source:    source,
		})
	}
	return dst
}

func normalizeCash(src []CashBalance) []CashRow {
	cash := make([]CashRow, 0, len(src))
	for _, r := range src {
		m, ok := ParseMonth(r.RawMonth)
		if !ok {
			continue
		}
		cash = append(cash, CashRow{Month: m, Entity: strings.TrimSpace(r.Entity), AmountUSD: r.CashUSD})
	}
	sort.SliceStable(cash, func(i, j int) bool { return cash[i].Month.Before(cash[j].Month) })
	return cash
}

func distinctMonths(rows []CanonicalRow) []Month {
	seen := map[Month]struct{}{}
	months := make([]Month, 0)
	for _, r := range rows {
		if r.Month.IsZero() {
			continue
		}
		if _, ok := seen[r.Month]; ok {
			continue
		}
		seen[r.Month] = struct{}{}
		months = append(months, r.Month)
	}
	return SortMonths(months)
}

func sortedPairs(missing map[fxKey]struct{}) []FxPair {
	pairs := make([]FxPair, 0, len(missing))
	for k := range missing {
		pairs = append(pairs, FxPair{Month: k.month, Currency: k.currency})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Month != pairs[j].Month {
			return pairs[i].Month < pairs[j].Month
		}
		return pairs[i].Currency < pairs[j].Currency
	})
	return pairs
}
