package core

import (
	"errors"
	"strings"
)

const (
	SourceActuals Source = "actuals"
	SourceBudget  Source = "budget"

	// ReportingCurrency is the single currency every amount is normalized to.
	ReportingCurrency = "USD"
)

type (
	// Source tags a canonical row as realized or planned figures.
	Source string

	// LedgerRow is an actuals or budget row as loaded, before FX
	// normalization. RawMonth keeps whatever the sheet had; Currency may be
	// blank, meaning the reporting currency.
	LedgerRow struct {
		RawMonth string
		Entity   string
		Category string
		Amount   float64
		Currency string
	}

	// FxRate converts one currency for one month into the reporting
	// currency. (month, currency) must be unique across the table.
	FxRate struct {
		RawMonth  string
		Currency  string
		RateToUSD float64
	}

	// CashBalance is a raw cash sheet row, already in the reporting
	// currency.
	CashBalance struct {
		RawMonth string
		Entity   string
		CashUSD  float64
	}

	// CanonicalRow is one normalized ledger line. AmountUSD is always
	// present and denominated in the reporting currency.
	CanonicalRow struct {
		Month     Month
		Entity    string
		Category  string
		AmountUSD float64
		Source    Source
	}

	// CashRow is one normalized cash balance.
	CashRow struct {
		Month     Month
		Entity    string
		AmountUSD float64
	}

	// RawTables is the four-sheet input contract every loader produces.
	RawTables struct {
		Actuals []LedgerRow
		Budget  []LedgerRow
		Fx      []FxRate
		Cash    []CashBalance
	}
)

// ErrDuplicateFxRate marks an FX table where some (month, currency) pair
// appears more than once; the join must be many-to-one.
var ErrDuplicateFxRate = errors.New("duplicate fx rate for (month, currency)")

// Valid reports whether s is one of the two known sources.
func (s Source) Valid() bool {
	return s == SourceActuals || s == SourceBudget
}

// currencyOrDefault trims the currency cell and falls back to the
// reporting currency when blank.
func currencyOrDefault(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return ReportingCurrency
	}
	return c
}
