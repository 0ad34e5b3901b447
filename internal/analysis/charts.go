package analysis

import (
	"github.com/Karthikn9883/fpna-agent/internal/metrics"
)

// Chart kinds understood by renderers. The payload shape per kind is a
// stable contract; renderers for cash_trend and dataset_overview fetch
// the series they need themselves, so those payloads stay empty.
const (
	ChartRevVsBudget     = "rev_vs_budget"
	ChartGMTrend         = "gm_trend"
	ChartOpexBreakdown   = "opex_breakdown"
	ChartCashTrend       = "cash_trend"
	ChartCategoryTrend   = "category_trend"
	ChartRevenueTrend    = "revenue_trend"
	ChartDatasetOverview = "dataset_overview"
)

// Chart is a rendering hint attached to an answer.
type Chart struct {
	Kind    string `json:"kind"`
	Payload any    `json:"payload"`
}

// RevVsBudgetPayload carries the two bars of a single-month comparison.
type RevVsBudgetPayload struct {
	Actual float64 `json:"actual"`
	Budget float64 `json:"budget"`
	Month  string  `json:"month"`
}

// GMPoint is one gross-margin sample; GMPct stays a fraction.
type GMPoint struct {
	Month string  `json:"month"`
	GMPct float64 `json:"gm_pct"`
}

// GMTrendPayload carries the margin line.
type GMTrendPayload struct {
	Points []GMPoint `json:"points"`
}

// OpexBar is one category bar, largest first.
type OpexBar struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// OpexBreakdownPayload carries one month's category bars.
type OpexBreakdownPayload struct {
	Month string    `json:"month"`
	Bars  []OpexBar `json:"bars"`
}

// TrendPoint is one monthly amount in a single-series trend.
type TrendPoint struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// CategoryTrendPayload carries one Opex category's monthly spend.
type CategoryTrendPayload struct {
	Category string       `json:"category"`
	Data     []TrendPoint `json:"data"`
}

// RevenuePoint pairs a month's actual revenue with its budget when one
// exists; months without budget rows omit the key entirely.
type RevenuePoint struct {
	Month  string   `json:"month"`
	Actual float64  `json:"actual"`
	Budget *float64 `json:"budget,omitempty"`
}

// RevenueTrendPayload carries the actual-vs-budget revenue line.
type RevenueTrendPayload struct {
	Data []RevenuePoint `json:"data"`
}

func revVsBudgetChart(c metrics.RevenueComparison) *Chart {
	return &Chart{Kind: ChartRevVsBudget, Payload: RevVsBudgetPayload{
		Actual: c.Actual,
		Budget: c.Budget,
		Month:  c.Month.String(),
	}}
}

func gmTrendChart(series []metrics.MarginPoint) *Chart {
	points := make([]GMPoint, len(series))
	for i, p := range series {
		points[i] = GMPoint{Month: p.Month.String(), GMPct: p.GMPct}
	}
	return &Chart{Kind: ChartGMTrend, Payload: GMTrendPayload{Points: points}}
}

func opexBreakdownChart(month string, breakdown []metrics.CategoryAmount) *Chart {
	bars := make([]OpexBar, len(breakdown))
	for i, b := range breakdown {
		bars[i] = OpexBar{Category: b.Category, Amount: b.Amount}
	}
	return &Chart{Kind: ChartOpexBreakdown, Payload: OpexBreakdownPayload{Month: month, Bars: bars}}
}

func cashTrendChart() *Chart {
	return &Chart{Kind: ChartCashTrend, Payload: struct{}{}}
}

func categoryTrendChart(category string, series []metrics.Point) *Chart {
	data := make([]TrendPoint, len(series))
	for i, p := range series {
		data[i] = TrendPoint{Month: p.Month.String(), Amount: p.Value}
	}
	return &Chart{Kind: ChartCategoryTrend, Payload: CategoryTrendPayload{Category: category, Data: data}}
}

func revenueTrendChart(actuals, budget []metrics.Point) *Chart {
	byMonth := make(map[string]float64, len(budget))
	for _, p := range budget {
		byMonth[p.Month.String()] = p.Value
	}
	data := make([]RevenuePoint, len(actuals))
	for i, p := range actuals {
		point := RevenuePoint{Month: p.Month.String(), Actual: p.Value}
		if b, ok := byMonth[point.Month]; ok {
			v := b
			point.Budget = &v
		}
		data[i] = point
	}
	return &Chart{Kind: ChartRevenueTrend, Payload: RevenueTrendPayload{Data: data}}
}

func datasetOverviewChart() *Chart {
	return &Chart{Kind: ChartDatasetOverview, Payload: struct{}{}}
}
