package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTables() RawTables {
	return RawTables{
		Actuals: []LedgerRow{
			{RawMonth: "2025-05", Entity: "ParentCo", Category: "Revenue", Amount: 1000, Currency: "USD"},
			{RawMonth: "2025-06", Entity: "EMEA", Category: "Revenue", Amount: 1200, Currency: "USD"},
		},
		Budget: []LedgerRow{
			{RawMonth: "2025-06", Entity: "ParentCo", Category: "Revenue", Amount: 1100, Currency: "USD"},
		},
		Fx:   usdRates("2025-05", "2025-06"),
		Cash: []CashBalance{{RawMonth: "2025-06", Entity: "Consolidated", CashUSD: 9800}},
	}
}

func TestFingerprintStableAcrossRowOrder(t *testing.T) {
	a := sampleTables()
	b := sampleTables()
	b.Actuals[0], b.Actuals[1] = b.Actuals[1], b.Actuals[0]
	b.Fx[0], b.Fx[1] = b.Fx[1], b.Fx[0]

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestFingerprintChangesWithAnyCell(t *testing.T) {
	a := sampleTables()
	b := sampleTables()
	b.Budget[0].Amount = 1100.01

	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	c := sampleTables()
	c.Cash[0].Entity = "ParentCo"
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestDatasetCarriesBuildFingerprint(t *testing.T) {
	tables := sampleTables()
	ds, err := BuildDataset(tables)
	require.NoError(t, err)
	assert.Equal(t, tables.Fingerprint(), ds.Fingerprint())
}

func TestDatasetEntitiesFirstSeenOrder(t *testing.T) {
	ds, err := BuildDataset(sampleTables())
	require.NoError(t, err)
	assert.Equal(t, []string{"ParentCo", "EMEA"}, ds.Entities())
	assert.Equal(t, 3, ds.RowCount())
	assert.Equal(t, 1, ds.CashCount())
}

func TestDatasetAccessorsReturnCopies(t *testing.T) {
	ds, err := BuildDataset(sampleTables())
	require.NoError(t, err)

	rows := ds.Rows()
	rows[0].AmountUSD = -1
	assert.Equal(t, 1000.0, ds.Rows()[0].AmountUSD)

	months := ds.Months()
	months[0] = NewMonth(1999, 1)
	assert.Equal(t, NewMonth(2025, 5), ds.Months()[0])

	cash := ds.Cash()
	cash[0].AmountUSD = -1
	assert.Equal(t, 9800.0, ds.Cash()[0].AmountUSD)
}
