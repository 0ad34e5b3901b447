package memory

import (
	"context"
	"sync"

	"github.com/Karthikn9883/fpna-agent/internal/core"
)

// Store serves raw tables from memory. Tests and the demo configuration
// use it; Replace lets refresh tests change the data between polls.
type Store struct {
	mu     sync.Mutex
	tables core.RawTables
}

func New(tables core.RawTables) *Store {
	return &Store{tables: copyTables(tables)}
}

// Load returns a copy of the stored tables so callers can never mutate
// the store through the result.
func (s *Store) Load(_ context.Context) (core.RawTables, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyTables(s.tables), nil
}

// Replace swaps the stored tables.
func (s *Store) Replace(tables core.RawTables) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = copyTables(tables)
}

// NewSample returns a store seeded with six months of plausible 2025
// figures across two entities, enough to exercise every operation
// without external I/O.
func NewSample() *Store {
	months := []string{"2025-01", "2025-02", "2025-03", "2025-04", "2025-05", "2025-06"}
	eurRates := []float64{1.08, 1.09, 1.085, 1.07, 1.075, 1.08}
	cash := []float64{1500000, 1390000, 1285000, 1190000, 1105000, 1030000}

	var t core.RawTables
	for i, m := range months {
		idx := float64(i)
		t.Actuals = append(t.Actuals,
			core.LedgerRow{RawMonth: m, Entity: "ParentCo", Category: "Revenue", Amount: 520000 + 40000*idx, Currency: "USD"},
			core.LedgerRow{RawMonth: m, Entity: "ParentCo", Category: "COGS", Amount: 210000 + 15000*idx, Currency: "USD"},
			core.LedgerRow{RawMonth: m, Entity: "ParentCo", Category: "Opex:Marketing", Amount: 175000 + 5000*idx, Currency: "USD"},
			core.LedgerRow{RawMonth: m, Entity: "ParentCo", Category: "Opex:Sales", Amount: 125000 + 2500*idx, Currency: "USD"},
			core.LedgerRow{RawMonth: m, Entity: "ParentCo", Category: "Opex:Admin", Amount: 85000 + 5000*idx, Currency: "USD"},
			core.LedgerRow{RawMonth: m, Entity: "ParentCo", Category: "Opex:R&D", Amount: 150000 + 10000*idx, Currency: "USD"},
			core.LedgerRow{RawMonth: m, Entity: "EMEA", Category: "Revenue", Amount: 120000 + 10000*idx, Currency: "EUR"},
			core.LedgerRow{RawMonth: m, Entity: "EMEA", Category: "Opex:Marketing", Amount: 20000, Currency: "EUR"},
		)
		t.Budget = append(t.Budget,
			core.LedgerRow{RawMonth: m, Entity: "ParentCo", Category: "Revenue", Amount: 500000 + 45000*idx, Currency: "USD"},
			core.LedgerRow{RawMonth: m, Entity: "ParentCo", Category: "Opex:Marketing", Amount: 170000 + 5000*idx, Currency: "USD"},
			core.LedgerRow{RawMonth: m, Entity: "EMEA", Category: "Revenue", Amount: 125000 + 10000*idx, Currency: "EUR"},
		)
		t.Fx = append(t.Fx,
			core.FxRate{RawMonth: m, Currency: "USD", RateToUSD: 1.0},
			core.FxRate{RawMonth: m, Currency: "EUR", RateToUSD: eurRates[i]},
		)
		t.Cash = append(t.Cash, core.CashBalance{RawMonth: m, Entity: "Consolidated", CashUSD: cash[i]})
	}
	return New(t)
}

func copyTables(t core.RawTables) core.RawTables {
	return core.RawTables{
		Actuals: append([]core.LedgerRow(nil), t.Actuals...),
		Budget:  append([]core.LedgerRow(nil), t.Budget...),
		Fx:      append([]core.FxRate(nil), t.Fx...),
		Cash:    append([]core.CashBalance(nil), t.Cash...),
	}
}
