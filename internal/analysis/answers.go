package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Karthikn9883/fpna-agent/internal/core"
	"github.com/Karthikn9883/fpna-agent/internal/metrics"
	"github.com/Karthikn9883/fpna-agent/internal/timeframe"
)

const msgNoFinancialData = "No financial data available for analysis."

// revenueVsBudget compares actual and budget revenue for one month. An
// unrecognized or empty time expression falls back to the latest month
// with data.
func (s *Service) revenueVsBudget(ds *core.Dataset, question, entity string) Result {
	months := ds.Months()
	if len(months) == 0 {
		return Result{Answer: msgNoFinancialData}
	}
	target := months[len(months)-1]
	if sel := timeframe.Resolve(question, months); len(sel.Months) > 0 {
		target = sel.Months[len(sel.Months)-1]
	}

	cmp := metrics.RevenueVsBudget(ds.Rows(), target, entity)
	if cmp.Rows == 0 {
		return Result{Answer: fmt.Sprintf("No revenue data for %s.", target)}
	}

	pct := "n/a"
	if cmp.DeltaPct.Defined {
		pct = fmt.Sprintf("%.1f%%", cmp.DeltaPct.Value*100)
	}
	sign := ""
	if cmp.Delta >= 0 {
		sign = "+"
	}
	answer := fmt.Sprintf("%s: Revenue %s vs Budget %s (%s%s vs plan).",
		target, core.FormatUSD(cmp.Actual), core.FormatUSD(cmp.Budget), sign, pct)
	return Result{Answer: answer, Chart: revVsBudgetChart(cmp)}
}

// gmTrend reports the gross margin series over the requested window,
// defaulting to the last three months with data.
func (s *Service) gmTrend(ds *core.Dataset, question, entity string) Result {
	months := ds.Months()
	window := timeframe.Resolve(question, months).Months
	if len(window) == 0 {
		window = tailMonths(months, 3)
	}

	series := metrics.GrossMarginSeries(ds.Rows(), window, entity)
	if len(series) == 0 {
		return Result{Answer: "No data to compute Gross Margin % for the selected range."}
	}

	parts := make([]string, len(series))
	for i, p := range series {
		parts[i] = fmt.Sprintf("%s: %.1f%%", p.Month, p.GMPct*100)
	}
	answer := "Gross Margin % by month: " + strings.Join(parts, ", ")
	if len(series) >= 2 {
		first, last := series[0], series[len(series)-1]
		pp := (last.GMPct - first.GMPct) * 100
		sign := ""
		if pp >= 0 {
			sign = "+"
		}
		answer += fmt.Sprintf(" (%s%.1f pp from %s to %s)", sign, pp, first.Month, last.Month)
	}
	answer += "."
	return Result{Answer: answer, Chart: gmTrendChart(series)}
}

// opexBreakdown either totals one named spend category across its
// months, when the question names one, or breaks a single month's Opex
// down by category.
func (s *Service) opexBreakdown(ds *core.Dataset, question, entity string) Result {
	if category, ok := CategoryFromText(question); ok {
		return s.categorySpend(ds, question, category, entity)
	}

	months := ds.Months()
	if len(months) == 0 {
		return Result{Answer: msgNoFinancialData}
	}
	target := months[len(months)-1]
	if sel := timeframe.Resolve(question, months); len(sel.Months) > 0 {
		target = sel.Months[len(sel.Months)-1]
	}

	breakdown := metrics.OpexBreakdown(ds.Rows(), target, entity)
	if len(breakdown) == 0 {
		return Result{Answer: fmt.Sprintf("No Opex categories found for %s.", target)}
	}

	var total float64
	terms := make([]string, len(breakdown))
	for i, b := range breakdown {
		total += b.Amount
		terms[i] = fmt.Sprintf("%s %s", b.Category, core.FormatUSD(b.Amount))
	}
	answer := fmt.Sprintf("Opex breakdown for %s: %s; total %s.",
		target, strings.Join(terms, ", "), core.FormatUSD(total))
	return Result{Answer: answer, Chart: opexBreakdownChart(target.String(), breakdown)}
}

// categorySpend answers "how much did we spend on X" questions. A date
// literal in the question narrows the window to one month or one year;
// otherwise the whole history counts.
func (s *Service) categorySpend(ds *core.Dataset, question, category, entity string) Result {
	series := metrics.CategorySeries(ds.Rows(), core.OpexLabel(category), entity)
	if len(series) == 0 {
		return Result{Answer: fmt.Sprintf("No %s expenses found in the dataset.", category)}
	}

	lit := timeframe.ExtractDateLiteral(question)
	scope := ""
	switch {
	case lit.HasMonth:
		series = filterPointsMonth(series, lit.Month)
		scope = lit.Month.String()
	case lit.HasYear:
		series = filterPointsYear(series, lit.Year)
		scope = strconv.Itoa(lit.Year)
	}
	if len(series) == 0 {
		return Result{Answer: fmt.Sprintf("No %s expenses found for %s.", category, scope)}
	}

	var total float64
	for _, p := range series {
		total += p.Value
	}
	first, last := series[0].Month, series[len(series)-1].Month

	var answer string
	switch {
	case lit.HasMonth:
		answer = fmt.Sprintf("Based on the actuals, %s spend in %s was %s.",
			category, lit.Month, core.FormatUSD(total))
	case lit.HasYear:
		answer = fmt.Sprintf("Based on the actuals, %s spend in %d totals %s across %d months (%s → %s).",
			category, lit.Year, core.FormatUSD(total), len(series), first, last)
	default:
		answer = fmt.Sprintf("Based on the actuals, %s spend totals %s across %d months (%s → %s).",
			category, core.FormatUSD(total), len(series), first, last)
	}
	return Result{Answer: answer, Chart: categoryTrendChart(category, series)}
}

// cashRunway estimates months of cash left from the last six months'
// EBITDA, burning over the most recent three. The cash series itself
// stays consolidated; the entity filter scopes the burn only.
func (s *Service) cashRunway(ds *core.Dataset, question, entity string) Result {
	window := tailMonths(ds.Months(), 6)
	recent := metrics.EBITDASeries(ds.Rows(), window, entity)
	r := metrics.CashRunway(ds.Cash(), recent)
	if r.Infinite {
		return Result{Answer: "Runway: ∞ (no net burn at current trend).", Chart: cashTrendChart()}
	}
	answer := fmt.Sprintf("Runway ≈ %.1f months (avg burn %s/mo over last 3m).",
		r.Months, core.FormatUSD(r.AvgBurn))
	return Result{Answer: answer, Chart: cashTrendChart()}
}

// revenueAnalysis rolls revenue up across the dataset: totals by source,
// variance, growth halves when the history is long enough, and an
// entity split when more than one entity reports.
func (s *Service) revenueAnalysis(ds *core.Dataset, question, entity string) Result {
	rows := revenueRows(ds.Rows(), entity)
	if len(rows) == 0 {
		return Result{Answer: "No revenue data found in the dataset."}
	}

	lit := timeframe.ExtractDateLiteral(question)
	var title string
	switch {
	case lit.HasMonth:
		rows = filterRowsMonth(rows, lit.Month)
		if len(rows) == 0 {
			return Result{Answer: fmt.Sprintf("No revenue data found for %s.", lit.Month)}
		}
		title = fmt.Sprintf("Revenue Analysis for %s", lit.Month)
	case lit.HasYear:
		rows = filterRowsYear(rows, lit.Year)
		if len(rows) == 0 {
			return Result{Answer: fmt.Sprintf("No revenue data found for %d.", lit.Year)}
		}
		title = fmt.Sprintf("Revenue Analysis for %d", lit.Year)
	default:
		months := ds.Months()
		if len(months) == 0 {
			title = "Revenue Analysis (No data)"
		} else {
			title = fmt.Sprintf("Revenue Analysis (%s → %s)", months[0], months[len(months)-1])
		}
	}

	var actualTotal, budgetTotal float64
	for _, r := range rows {
		switch r.Source {
		case core.SourceActuals:
			actualTotal += r.AmountUSD
		case core.SourceBudget:
			budgetTotal += r.AmountUSD
		}
	}
	variance := actualTotal - budgetTotal
	pct := "n/a"
	if vp := metrics.NewRatio(variance, budgetTotal); vp.Defined {
		pct = fmt.Sprintf("%+.1f%%", vp.Value*100)
	}

	monthlyActuals := metrics.RevenueSeries(rows, core.SourceActuals, "")
	monthlyBudget := metrics.RevenueSeries(rows, core.SourceBudget, "")

	growth := ""
	if n := len(monthlyActuals); n >= 6 {
		half := 6
		if n < 12 {
			half = n / 2
		}
		recent := metrics.MeanValue(monthlyActuals[n-half:])
		prior := metrics.MeanValue(monthlyActuals[:half])
		rate := "n/a"
		if prior > 0 {
			rate = fmt.Sprintf("%+.1f%%", (recent-prior)/prior*100)
		}
		growth = fmt.Sprintf("\n• Growth: Recent avg %s vs Prior avg %s (%s)",
			core.FormatUSD(recent), core.FormatUSD(prior), rate)
	}

	entityLine := ""
	if countEntities(rows) > 1 {
		totals := entityTotals(rows)
		parts := make([]string, len(totals))
		for i, t := range totals {
			parts[i] = fmt.Sprintf("%s %s", t.entity, core.FormatUSD(t.amount))
		}
		entityLine = "\n• By Entity: " + strings.Join(parts, ", ")
	}

	answer := fmt.Sprintf("%s:\n• Total Revenue (Actual): %s\n• Total Revenue (Budget): %s\n• Variance: %s (%s vs budget)%s%s",
		title, core.FormatUSD(actualTotal), core.FormatUSD(budgetTotal),
		core.FormatUSD(variance), pct, growth, entityLine)
	return Result{Answer: answer, Chart: revenueTrendChart(monthlyActuals, monthlyBudget)}
}

// financialPerformance is the whole-business rollup: revenue through
// EBITDA, cash movement and runway, optionally scoped to an entity or a
// date literal in the question.
func (s *Service) financialPerformance(ds *core.Dataset, question, entity string) Result {
	rows := ds.Rows()
	cash := ds.Cash()
	if entity != "" {
		rows = filterRowsEntity(rows, entity)
		cash = filterCashEntity(cash, entity)
	}
	lit := timeframe.ExtractDateLiteral(question)
	switch {
	case lit.HasMonth:
		rows = filterRowsMonth(rows, lit.Month)
		cash = filterCashMonth(cash, lit.Month)
	case lit.HasYear:
		rows = filterRowsYear(rows, lit.Year)
		cash = filterCashYear(cash, lit.Year)
	}

	months := distinctRowMonths(rows)
	if len(months) == 0 {
		return Result{Answer: msgNoFinancialData}
	}

	var revenue, cogs, opex float64
	for _, r := range rows {
		if r.Source != core.SourceActuals {
			continue
		}
		switch core.ClassOf(r.Category) {
		case core.ClassRevenue:
			revenue += r.AmountUSD
		case core.ClassCOGS:
			cogs += r.AmountUSD
		case core.ClassOpex:
			opex += r.AmountUSD
		}
	}
	grossProfit := revenue - cogs
	ebitda := grossProfit - opex

	start, end := cashStartEnd(cash)

	runwayText := "∞ (profitable)"
	if recent := metrics.EBITDASeries(rows, tailMonths(months, 6), ""); len(recent) > 0 {
		if avgBurn := -metrics.MeanValue(recent); avgBurn > 0 {
			runwayText = fmt.Sprintf("%.1f months", end/avgBurn)
		}
	}

	answer := fmt.Sprintf("Financial Performance Summary (%s → %s):\n"+
		"• Revenue: %s\n"+
		"• COGS: %s\n"+
		"• Gross Profit: %s (%s margin)\n"+
		"• Total OpEx: %s\n"+
		"• EBITDA: %s (%s margin)\n"+
		"• Cash: %s → %s (%s net change)\n"+
		"• Runway: %s",
		months[0], months[len(months)-1],
		core.FormatUSD(revenue),
		core.FormatUSD(cogs),
		core.FormatUSD(grossProfit), marginText(grossProfit, revenue),
		core.FormatUSD(opex),
		core.FormatUSD(ebitda), marginText(ebitda, revenue),
		core.FormatUSD(start), core.FormatUSD(end), core.FormatUSD(end-start),
		runwayText)

	if category, ok := CategoryFromText(question); ok {
		if series := metrics.CategorySeries(rows, core.OpexLabel(category), ""); len(series) > 0 {
			return Result{Answer: answer, Chart: categoryTrendChart(category, series)}
		}
	}
	return Result{Answer: answer, Chart: cashTrendChart()}
}

// dataCoverage describes what the dataset contains: the month span, the
// historical/projected split relative to the service clock, entities,
// revenue totals by source and the cash movement.
func (s *Service) dataCoverage(ds *core.Dataset) Result {
	months := ds.Months()
	if len(months) == 0 {
		return Result{Answer: "I don't see any monthly rows in the dataset."}
	}

	nowT := s.now()
	current := core.Month{Year: nowT.Year(), Month: nowT.Month()}
	historical, projected := 0, 0
	for _, m := range months {
		if m.After(current) {
			projected++
		} else {
			historical++
		}
	}
	coverage := fmt.Sprintf("%d historical", len(months))
	if projected > 0 {
		coverage = fmt.Sprintf("%d historical + %d projected", historical, projected)
	}

	entities := ds.Entities()
	sort.Strings(entities)

	var revActual, revBudget float64
	for _, r := range ds.Rows() {
		if !core.IsRevenue(r.Category) {
			continue
		}
		switch r.Source {
		case core.SourceActuals:
			revActual += r.AmountUSD
		case core.SourceBudget:
			revBudget += r.AmountUSD
		}
	}
	start, end := cashStartEnd(ds.Cash())

	answer := fmt.Sprintf("Dataset Analysis (%s months from %s → %s):\n"+
		"• Entities: %s (%d total)\n"+
		"• Total Revenue (Actual): %s\n"+
		"• Total Revenue (Budget): %s\n"+
		"• Cash Movement: %s → %s (%s change)",
		coverage, months[0], months[len(months)-1],
		strings.Join(entities, ", "), len(entities),
		core.FormatUSD(revActual), core.FormatUSD(revBudget),
		core.FormatUSD(start), core.FormatUSD(end), core.FormatUSD(end-start))
	return Result{Answer: answer, Chart: datasetOverviewChart()}
}

// marginText renders a margin percentage, or "n/a" when revenue is zero
// and the margin is undefined.
func marginText(num, den float64) string {
	r := metrics.NewRatio(num, den)
	if !r.Defined {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", r.Value*100)
}

// tailMonths returns the last n months of an ascending slice.
func tailMonths(months []core.Month, n int) []core.Month {
	if len(months) <= n {
		return months
	}
	return months[len(months)-n:]
}

func revenueRows(rows []core.CanonicalRow, entity string) []core.CanonicalRow {
	out := make([]core.CanonicalRow, 0, len(rows))
	for _, r := range rows {
		if !core.IsRevenue(r.Category) {
			continue
		}
		if entity != "" && r.Entity != entity {
			continue
		}
		out = append(out, r)
	}
	return out
}

func filterRowsEntity(rows []core.CanonicalRow, entity string) []core.CanonicalRow {
	out := make([]core.CanonicalRow, 0, len(rows))
	for _, r := range rows {
		if r.Entity == entity {
			out = append(out, r)
		}
	}
	return out
}

func filterRowsMonth(rows []core.CanonicalRow, m core.Month) []core.CanonicalRow {
	out := make([]core.CanonicalRow, 0, len(rows))
	for _, r := range rows {
		if r.Month == m {
			out = append(out, r)
		}
	}
	return out
}

func filterRowsYear(rows []core.CanonicalRow, year int) []core.CanonicalRow {
	out := make([]core.CanonicalRow, 0, len(rows))
	for _, r := range rows {
		if r.Month.Year == year {
			out = append(out, r)
		}
	}
	return out
}

func filterCashEntity(cash []core.CashRow, entity string) []core.CashRow {
	out := make([]core.CashRow, 0, len(cash))
	for _, c := range cash {
		if c.Entity == entity {
			out = append(out, c)
		}
	}
	return out
}

func filterCashMonth(cash []core.CashRow, m core.Month) []core.CashRow {
	out := make([]core.CashRow, 0, len(cash))
	for _, c := range cash {
		if c.Month == m {
			out = append(out, c)
		}
	}
	return out
}

func filterCashYear(cash []core.CashRow, year int) []core.CashRow {
	out := make([]core.CashRow, 0, len(cash))
	for _, c := range cash {
		if c.Month.Year == year {
			out = append(out, c)
		}
	}
	return out
}

func filterPointsMonth(points []metrics.Point, m core.Month) []metrics.Point {
	out := make([]metrics.Point, 0, len(points))
	for _, p := range points {
		if p.Month == m {
			out = append(out, p)
		}
	}
	return out
}

func filterPointsYear(points []metrics.Point, year int) []metrics.Point {
	out := make([]metrics.Point, 0, len(points))
	for _, p := range points {
		if p.Month.Year == year {
			out = append(out, p)
		}
	}
	return out
}

// cashStartEnd returns the total balance at the earliest and latest
// cash months, each summed across entities. Empty series are zero on
// both ends; the input must already be sorted by month.
func cashStartEnd(cash []core.CashRow) (start, end float64) {
	if len(cash) == 0 {
		return 0, 0
	}
	first, last := cash[0].Month, cash[len(cash)-1].Month
	for _, c := range cash {
		if c.Month == first {
			start += c.AmountUSD
		}
		if c.Month == last {
			end += c.AmountUSD
		}
	}
	return start, end
}

func distinctRowMonths(rows []core.CanonicalRow) []core.Month {
	seen := map[core.Month]struct{}{}
	months := make([]core.Month, 0)
	for _, r := range rows {
		if _, ok := seen[r.Month]; ok {
			continue
		}
		seen[r.Month] = struct{}{}
		months = append(months, r.Month)
	}
	return core.SortMonths(months)
}

func countEntities(rows []core.CanonicalRow) int {
	seen := map[string]struct{}{}
	for _, r := range rows {
		seen[r.Entity] = struct{}{}
	}
	return len(seen)
}

type entityAmount struct {
	entity string
	amount float64
}

// entityTotals sums actuals revenue per entity, largest first, ties by
// name.
func entityTotals(rows []core.CanonicalRow) []entityAmount {
	totals := map[string]float64{}
	for _, r := range rows {
		if r.Source != core.SourceActuals {
			continue
		}
		totals[r.Entity] += r.AmountUSD
	}
	out := make([]entityAmount, 0, len(totals))
	for e, v := range totals {
		out = append(out, entityAmount{entity: e, amount: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].amount != out[j].amount {
			return out[i].amount > out[j].amount
		}
		return out[i].entity < out[j].entity
	})
	return out
}
