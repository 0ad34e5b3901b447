package core

// Dataset is the canonical ledger plus the cash series, built once per
// input and never mutated. Every accessor returns a fresh slice, so a
// single Dataset is safe to share read-only across concurrent queries
// without locking.
type Dataset struct {
	rows        []CanonicalRow
	cash        []CashRow
	months      []Month
	fingerprint string
}

// Rows returns a copy of the canonical ledger. Row order is insertion
// order (actuals then budget) and carries no meaning; consumers aggregate
// by key.
func (d *Dataset) Rows() []CanonicalRow {
	out := make([]CanonicalRow, len(d.rows))
	copy(out, d.rows)
	return out
}

// Cash returns a copy of the cash series, sorted ascending by month.
func (d *Dataset) Cash() []CashRow {
	out := make([]CashRow, len(d.cash))
	copy(out, d.cash)
	return out
}

// Months returns the distinct months present in the ledger, ascending.
// This is the authoritative universe for time-window resolution.
func (d *Dataset) Months() []Month {
	out := make([]Month, len(d.months))
	copy(out, d.months)
	return out
}

// LatestMonth returns the most recent month with ledger data.
func (d *Dataset) LatestMonth() (Month, bool) {
	if len(d.months) == 0 {
		return Month{}, false
	}
	return d.months[len(d.months)-1], true
}

// Entities returns the distinct entity names in first-seen order.
func (d *Dataset) Entities() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range d.rows {
		if r.Entity == "" {
			continue
		}
		if _, ok := seen[r.Entity]; ok {
			continue
		}
		seen[r.Entity] = struct{}{}
		out = append(out, r.Entity)
	}
	return out
}

// RowCount returns the number of canonical ledger rows.
func (d *Dataset) RowCount() int { return len(d.rows) }

// CashCount returns the number of cash rows.
func (d *Dataset) CashCount() int { return len(d.cash) }

// Fingerprint identifies the raw input this dataset was built from. Two
// loads of the same sheet set produce the same fingerprint, so serving
// layers can key rebuilds on it.
func (d *Dataset) Fingerprint() string { return d.fingerprint }
