package sheets

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Karthikn9883/fpna-agent/internal/core"
)

func TestParseLedgerRows(t *testing.T) {
	records := [][]string{
		{"month", "entity", "account_category", "amount", "currency"},
		{"2025-01", "ParentCo", "Revenue", "1,000.50", "USD"},
		{"2025-01", "EMEA", "Opex:Marketing", "$250", "EUR"},
		{"", "", "", "", ""},
		{"2025-02", "ParentCo", "COGS", "400"},
	}

	rows, err := ParseLedgerRows(records)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, core.LedgerRow{RawMonth: "2025-01", Entity: "ParentCo", Category: "Revenue", Amount: 1000.50, Currency: "USD"}, rows[0])
	assert.Equal(t, core.LedgerRow{RawMonth: "2025-01", Entity: "EMEA", Category: "Opex:Marketing", Amount: 250, Currency: "EUR"}, rows[1])
	// short record: currency cell absent, left blank for the default
	assert.Equal(t, core.LedgerRow{RawMonth: "2025-02", Entity: "ParentCo", Category: "COGS", Amount: 400}, rows[2])
}

func TestParseLedgerRowsHeaderCaseInsensitive(t *testing.T) {
	records := [][]string{
		{" Month ", "ENTITY", "Account_Category", "Amount"},
		{"2025-01", "ParentCo", "Revenue", "10"},
	}

	rows, err := ParseLedgerRows(records)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ParentCo", rows[0].Entity)
}

func TestParseLedgerRowsCurrencyOptional(t *testing.T) {
	records := [][]string{
		{"month", "entity", "account_category", "amount"},
		{"2025-01", "ParentCo", "Revenue", "10"},
	}

	rows, err := ParseLedgerRows(records)
	require.NoError(t, err)
	assert.Empty(t, rows[0].Currency)
}

func TestParseLedgerRowsMissingColumns(t *testing.T) {
	records := [][]string{
		{"month", "entity"},
		{"2025-01", "ParentCo"},
	}

	_, err := ParseLedgerRows(records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column account_category,amount")
	assert.Contains(t, err.Error(), "got headers=[month entity]")
}

func TestParseLedgerRowsInvalidAmount(t *testing.T) {
	records := [][]string{
		{"month", "entity", "account_category", "amount"},
		{"2025-01", "ParentCo", "Revenue", "10"},
		{"2025-02", "ParentCo", "Revenue", "ten"},
	}

	_, err := ParseLedgerRows(records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
	assert.True(t, errors.Is(err, core.ErrInvalidAmount))
}

func TestParseLedgerRowsEmptyTable(t *testing.T) {
	_, err := ParseLedgerRows(nil)
	assert.ErrorIs(t, err, ErrMissingHeader)
}

func TestParseFxRows(t *testing.T) {
	records := [][]string{
		{"month", "currency", "rate_to_usd"},
		{"2025-01", "USD", "1.0"},
		{"2025-01", "EUR", "1.08"},
	}

	rows, err := ParseFxRows(records)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, core.FxRate{RawMonth: "2025-01", Currency: "EUR", RateToUSD: 1.08}, rows[1])
}

func TestParseFxRowsInvalidRate(t *testing.T) {
	records := [][]string{
		{"month", "currency", "rate_to_usd"},
		{"2025-01", "EUR", "about one"},
	}

	_, err := ParseFxRows(records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `row 2: invalid rate_to_usd "about one"`)
}

func TestParseFxRowsBlankRate(t *testing.T) {
	records := [][]string{
		{"month", "currency", "rate_to_usd"},
		{"2025-01", "EUR", ""},
	}

	_, err := ParseFxRows(records)
	require.Error(t, err)
}

func TestParseFxRowsMissingColumns(t *testing.T) {
	records := [][]string{
		{"month", "rate"},
	}

	_, err := ParseFxRows(records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column currency,rate_to_usd")
}

func TestParseCashRows(t *testing.T) {
	records := [][]string{
		{"month", "entity", "cash_usd"},
		{"2025-01", "Consolidated", "$1,000,000"},
		{"2025-02", "Consolidated", "985000"},
	}

	rows, err := ParseCashRows(records)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, core.CashBalance{RawMonth: "2025-01", Entity: "Consolidated", CashUSD: 1000000}, rows[0])
}

func TestParseCashRowsMissingColumns(t *testing.T) {
	records := [][]string{
		{"month", "entity", "balance"},
	}

	_, err := ParseCashRows(records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column cash_usd")
}
