// Package metrics implements the deterministic calculations behind the
// answer operations: revenue vs budget, gross margin, opex breakdown,
// EBITDA and cash runway.
//
// Every function takes canonical rows, a month selection and an optional
// exact entity filter applied before aggregation. Sums stay unrounded
// float64 and percentages stay fractions; formatting happens at the
// presentation boundary.
package metrics

import (
	"encoding/json"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/Karthikn9883/fpna-agent/internal/core"
)

// Ratio is a division result that knows whether it is defined. A zero
// denominator yields Defined=false; consumers render "n/a", never a
// silent zero.
type Ratio struct {
	Value   float64
	Defined bool
}

// NewRatio divides num by den, returning the undefined sentinel when den
// is zero.
func NewRatio(num, den float64) Ratio {
	if den == 0 {
		return Ratio{}
	}
	return Ratio{Value: num / den, Defined: true}
}

// MarshalJSON encodes an undefined ratio as null.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// Point is one (month, value) sample in a monthly series.
type Point struct {
	Month core.Month
	Value float64
}

// RevenueComparison holds actual vs budget revenue for one month.
// Rows counts the revenue lines that matched across both sources, so
// callers can tell an all-zero month from a month with no data at all.
type RevenueComparison struct {
	Month    core.Month
	Actual   float64
	Budget   float64
	Delta    float64
	DeltaPct Ratio
	Rows     int
}

// RevenueVsBudget sums revenue lines for one month from both sources.
// DeltaPct is undefined when the budget is zero.
func RevenueVsBudget(rows []core.CanonicalRow, month core.Month, entity string) RevenueComparison {
	c := RevenueComparison{Month: month}
	for _, r := range rows {
		if r.Month != month || !matchEntity(r, entity) || !core.IsRevenue(r.Category) {
			continue
		}
		c.Rows++
		switch r.Source {
		case core.SourceActuals:
			c.Actual += r.AmountUSD
		case core.SourceBudget:
			c.Budget += r.AmountUSD
		}
	}
	c.Delta = c.Actual - c.Budget
	c.DeltaPct = NewRatio(c.Delta, c.Budget)
	return c
}

// MarginPoint is the gross margin fraction for one month.
type MarginPoint struct {
	Month core.Month
	GMPct float64
}

// GrossMarginSeries computes (revenue−cogs)/revenue per selected month,
// actuals only. Months with zero revenue are excluded rather than
// zeroed, and the output is sorted ascending by month regardless of the
// selection's order.
func GrossMarginSeries(rows []core.CanonicalRow, months []core.Month, entity string) []MarginPoint {
	out := make([]MarginPoint, 0)
	for m, s := range sumByMonth(rows, months, entity) {
		if s.rev == 0 {
			continue
		}
		out = append(out, MarginPoint{Month: m, GMPct: (s.rev - s.cogs) / s.rev})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

// CategoryAmount is one Opex category total.
type CategoryAmount struct {
	Category string
	Amount   float64
}

// OpexBreakdown groups Opex lines for one month by category, actuals
// only. The result is sorted descending by amount with ties broken by
// category name ascending, so equal spends always list in the same
// order.
func OpexBreakdown(rows []core.CanonicalRow, month core.Month, entity string) []CategoryAmount {
	totals := map[string]float64{}
	for _, r := range rows {
		if r.Source != core.SourceActuals || r.Month != month {
			continue
		}
		if !matchEntity(r, entity) || !core.IsOpex(r.Category) {
			continue
		}
		totals[r.Category] += r.AmountUSD
	}
	out := make([]CategoryAmount, 0, len(totals))
	for c, v := range totals {
		out = append(out, CategoryAmount{Category: c, Amount: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// EBITDASeries computes revenue − cogs − opex per selected month,
// actuals only, sorted ascending. Months with no actuals rows produce
// no point; months with rows but a missing class sum that class to zero.
func EBITDASeries(rows []core.CanonicalRow, months []core.Month, entity string) []Point {
	out := make([]Point, 0)
	for m, s := range sumByMonth(rows, months, entity) {
		out = append(out, Point{Month: m, Value: s.rev - s.cogs - s.opex})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

// Runway is the cash runway verdict. Infinite means no net burn at the
// current trend; otherwise Months holds latest cash / AvgBurn.
type Runway struct {
	Months   float64
	AvgBurn  float64
	Infinite bool
}

// CashRunway estimates months of cash left from a trailing EBITDA
// window. Each month burns max(0, −ebitda); the average runs over the
// last three points, or over however many are present when the window
// is short. No points or zero average burn is an infinite runway, a
// valid terminal verdict rather than an error.
func CashRunway(cash []core.CashRow, recent []Point) Runway {
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	if len(recent) == 0 {
		return Runway{Infinite: true}
	}
	burns := make([]float64, len(recent))
	for i, p := range recent {
		burns[i] = math.Max(0, -p.Value)
	}
	avg := stat.Mean(burns, nil)
	if avg == 0 {
		return Runway{Infinite: true}
	}
	return Runway{Months: LatestCash(cash) / avg, AvgBurn: avg}
}

// LatestCash returns the total balance at the most recent cash month,
// summed across entities. An empty series is zero cash.
func LatestCash(cash []core.CashRow) float64 {
	var latest core.Month
	found := false
	for _, c := range cash {
		if !found || c.Month.After(latest) {
			latest, found = c.Month, true
		}
	}
	if !found {
		return 0
	}
	var total float64
	for _, c := range cash {
		if c.Month == latest {
			total += c.AmountUSD
		}
	}
	return total
}

// RevenueSeries sums revenue lines per month for one source, sorted
// ascending. Months without matching rows are absent.
func RevenueSeries(rows []core.CanonicalRow, source core.Source, entity string) []Point {
	totals := map[core.Month]float64{}
	for _, r := range rows {
		if r.Source != source || !matchEntity(r, entity) || !core.IsRevenue(r.Category) {
			continue
		}
		totals[r.Month] += r.AmountUSD
	}
	return sortedPoints(totals)
}

// CategorySeries sums one exact account category per month, actuals
// only, sorted ascending.
func CategorySeries(rows []core.CanonicalRow, category, entity string) []Point {
	totals := map[core.Month]float64{}
	for _, r := range rows {
		if r.Source != core.SourceActuals || r.Category != category || !matchEntity(r, entity) {
			continue
		}
		totals[r.Month] += r.AmountUSD
	}
	return sortedPoints(totals)
}

// MeanValue averages the values of a series, zero when empty.
func MeanValue(points []Point) float64 {
	if len(points) == 0 {
		return 0
	}
	vals := make([]float64, len(points))
	for i, p := range points {
		vals[i] = p.Value
	}
	return stat.Mean(vals, nil)
}

// classSums accumulates one month's actuals by taxonomy class.
type classSums struct {
	rev, cogs, opex float64
}

// sumByMonth groups actuals by month over the selection. A month whose
// only rows fall outside the taxonomy still gets an all-zero entry, the
// same as a grouped aggregation would produce.
func sumByMonth(rows []core.CanonicalRow, months []core.Month, entity string) map[core.Month]*classSums {
	sel := monthSet(months)
	byMonth := map[core.Month]*classSums{}
	for _, r := range rows {
		if r.Source != core.SourceActuals || !matchEntity(r, entity) {
			continue
		}
		if _, ok := sel[r.Month]; !ok {
			continue
		}
		s := byMonth[r.Month]
		if s == nil {
			s = &classSums{}
			byMonth[r.Month] = s
		}
		switch core.ClassOf(r.Category) {
		case core.ClassRevenue:
			s.rev += r.AmountUSD
		case core.ClassCOGS:
			s.cogs += r.AmountUSD
		case core.ClassOpex:
			s.opex += r.AmountUSD
		}
	}
	return byMonth
}

func matchEntity(r core.CanonicalRow, entity string) bool {
	return entity == "" || r.Entity == entity
}

func monthSet(months []core.Month) map[core.Month]struct{} {
	set := make(map[core.Month]struct{}, len(months))
	for _, m := range months {
		set[m] = struct{}{}
	}
	return set
}

func sortedPoints(totals map[core.Month]float64) []Point {
	out := make([]Point, 0, len(totals))
	for m, v := range totals {
		out = append(out, Point{Month: m, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}
