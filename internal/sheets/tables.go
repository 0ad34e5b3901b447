package sheets

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Karthikn9883/fpna-agent/internal/core"
)

// Column names of the four-table contract. Headers are matched
// case-insensitively; order within a table never matters.
const (
	ColMonth    = "month"
	ColEntity   = "entity"
	ColCategory = "account_category"
	ColAmount   = "amount"
	ColCurrency = "currency"
	ColRate     = "rate_to_usd"
	ColCash     = "cash_usd"
)

// ErrMissingHeader marks a table whose first row does not carry the
// required columns.
var ErrMissingHeader = errors.New("missing header row")

// ParseLedgerRows converts a raw actuals or budget table (header row
// first) into ledger rows. The currency column is optional; a blank or
// absent currency means the reporting currency.
func ParseLedgerRows(records [][]string) ([]core.LedgerRow, error) {
	headers, err := headerRow(records)
	if err != nil {
		return nil, err
	}
	idx, err := requireColumns(headers, ColMonth, ColEntity, ColCategory, ColAmount)
	if err != nil {
		return nil, err
	}
	currencyIdx := indexOf(headers, ColCurrency)

	out := make([]core.LedgerRow, 0, len(records)-1)
	for i, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		amount, err := core.ParseAmount(safeGet(record, idx[ColAmount]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		row := core.LedgerRow{
			RawMonth: safeGet(record, idx[ColMonth]),
			Entity:   safeGet(record, idx[ColEntity]),
			Category: safeGet(record, idx[ColCategory]),
			Amount:   amount,
		}
		if currencyIdx >= 0 {
			row.Currency = safeGet(record, currencyIdx)
		}
		out = append(out, row)
	}
	return out, nil
}

// ParseFxRows converts a raw FX table into rate rows. A rate cell that is
// blank or non-numeric is an error, never a silent 1.0.
func ParseFxRows(records [][]string) ([]core.FxRate, error) {
	headers, err := headerRow(records)
	if err != nil {
		return nil, err
	}
	idx, err := requireColumns(headers, ColMonth, ColCurrency, ColRate)
	if err != nil {
		return nil, err
	}

	out := make([]core.FxRate, 0, len(records)-1)
	for i, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		raw := safeGet(record, idx[ColRate])
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid rate_to_usd %q", i+2, raw)
		}
		out = append(out, core.FxRate{
			RawMonth:  safeGet(record, idx[ColMonth]),
			Currency:  safeGet(record, idx[ColCurrency]),
			RateToUSD: rate,
		})
	}
	return out, nil
}

// ParseCashRows converts a raw cash table into balance rows. Cash is
// already denominated in the reporting currency.
func ParseCashRows(records [][]string) ([]core.CashBalance, error) {
	headers, err := headerRow(records)
	if err != nil {
		return nil, err
	}
	idx, err := requireColumns(headers, ColMonth, ColEntity, ColCash)
	if err != nil {
		return nil, err
	}

	out := make([]core.CashBalance, 0, len(records)-1)
	for i, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		cash, err := core.ParseAmount(safeGet(record, idx[ColCash]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, core.CashBalance{
			RawMonth: safeGet(record, idx[ColMonth]),
			Entity:   safeGet(record, idx[ColEntity]),
			CashUSD:  cash,
		})
	}
	return out, nil
}

func headerRow(records [][]string) ([]string, error) {
	if len(records) == 0 {
		return nil, ErrMissingHeader
	}
	return records[0], nil
}

// requireColumns maps every required column to its index, collecting all
// the absent ones into a single error naming them.
func requireColumns(headers []string, required ...string) (map[string]int, error) {
	idx := make(map[string]int, len(required))
	var missing []string
	for _, col := range required {
		i := indexOf(headers, col)
		if i == -1 {
			missing = append(missing, col)
			continue
		}
		idx[col] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing column %s; got headers=%v", strings.Join(missing, ","), headers)
	}
	return idx, nil
}

func indexOf(headers []string, target string) int {
	for i, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), target) {
			return i
		}
	}
	return -1
}

func safeGet(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
