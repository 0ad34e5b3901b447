// Package analysis answers the fixed set of financial questions against
// a dataset. Each operation returns a board-ready sentence plus an
// optional chart hint for renderers; all numbers come from the metrics
// package and all time expressions go through the timeframe resolver.
package analysis

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Karthikn9883/fpna-agent/internal/core"
)

// Operation names one of the fixed metric operations. The values are
// part of the API contract and appear in responses as the "operation"
// field.
type Operation string

const (
	OpRevenueVsBudget      Operation = "revenue_vs_budget"
	OpGMTrend              Operation = "gm_trend"
	OpOpexBreakdown        Operation = "opex_breakdown"
	OpCashRunway           Operation = "cash_runway"
	OpRevenueAnalysis      Operation = "revenue_analysis"
	OpFinancialPerformance Operation = "financial_performance"
	OpDataCoverage         Operation = "data_coverage"
)

// Operations lists every operation in a stable order.
func Operations() []Operation {
	return []Operation{
		OpRevenueVsBudget,
		OpGMTrend,
		OpOpexBreakdown,
		OpCashRunway,
		OpRevenueAnalysis,
		OpFinancialPerformance,
		OpDataCoverage,
	}
}

// Valid reports whether op names a known operation.
func (o Operation) Valid() bool {
	switch o {
	case OpRevenueVsBudget, OpGMTrend, OpOpexBreakdown, OpCashRunway,
		OpRevenueAnalysis, OpFinancialPerformance, OpDataCoverage:
		return true
	}
	return false
}

// ErrUnknownOperation marks a request for an operation that does not
// exist.
var ErrUnknownOperation = errors.New("unknown operation")

// Result is one answered question.
type Result struct {
	Answer string `json:"answer"`
	Chart  *Chart `json:"chart,omitempty"`
}

// Service answers operations. It is stateless apart from its clock,
// which exists so tests can pin the boundary between historical and
// projected months.
type Service struct {
	log zerolog.Logger
	now func() time.Time
}

// New builds a Service. A nil now defaults to time.Now.
func New(log zerolog.Logger, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{log: log, now: now}
}

// Answer runs one operation against the dataset. Question text feeds
// the time-window resolver and the category keyword filter; entity, when
// non-empty, restricts aggregation to exactly that entity.
func (s *Service) Answer(ds *core.Dataset, op Operation, question, entity string) (Result, error) {
	var res Result
	switch op {
	case OpRevenueVsBudget:
		res = s.revenueVsBudget(ds, question, entity)
	case OpGMTrend:
		res = s.gmTrend(ds, question, entity)
	case OpOpexBreakdown:
		res = s.opexBreakdown(ds, question, entity)
	case OpCashRunway:
		res = s.cashRunway(ds, question, entity)
	case OpRevenueAnalysis:
		res = s.revenueAnalysis(ds, question, entity)
	case OpFinancialPerformance:
		res = s.financialPerformance(ds, question, entity)
	case OpDataCoverage:
		res = s.dataCoverage(ds)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}

	kind := ""
	if res.Chart != nil {
		kind = res.Chart.Kind
	}
	s.log.Debug().
		Str("operation", string(op)).
		Str("entity", entity).
		Str("chart", kind).
		Msg("answered")
	return res, nil
}
