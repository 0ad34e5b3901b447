// Package intent maps free-form question text to one of the fixed
// analysis operations. The classifier is an ordered keyword rule table:
// rules run top to bottom and the first hit wins, so the table is the
// routing precedence contract. Every question classifies to something;
// questions nothing else claims fall through to the dataset overview.
//
// An external LLM router can replace this classifier. Its configuration
// lives in internal/config and is validated there, but this package is
// the only router the engine itself ships.
package intent

import (
	"strings"

	"github.com/Karthikn9883/fpna-agent/internal/analysis"
)

// rule routes questions whose text contains any "any" keyword and, when
// "with" is non-empty, at least one of those too.
type rule struct {
	op   analysis.Operation
	any  []string
	with []string
}

// rules in precedence order. Comprehensive revenue questions outrank
// the narrower vs-budget comparison, and category spend questions
// outrank the general expense fallback near the bottom.
var rules = []rule{
	{op: analysis.OpRevenueAnalysis, any: []string{"revenue"}, with: []string{"total", "overall", "how much", "analysis", "performance"}},
	{op: analysis.OpRevenueVsBudget, any: []string{"revenue"}, with: []string{"budget"}},
	{op: analysis.OpGMTrend, any: []string{"gross margin", "gm%", "gm %", "margin"}},
	{op: analysis.OpOpexBreakdown, any: []string{"marketing", "sales", "r&d", "admin", "opex"}, with: []string{"spend", "spent", "cost", "expense", "breakdown", "by category"}},
	{op: analysis.OpFinancialPerformance, any: []string{"performance", "dashboard", "summary", "overview"}, with: []string{"financial", "business", "company"}},
	{op: analysis.OpCashRunway, any: []string{"runway"}},
	{op: analysis.OpCashRunway, any: []string{"cash"}, with: []string{"burn"}},
	{op: analysis.OpDataCoverage, any: []string{"how many months", "months of data", "which months", "what months", "dataset"}},
	{op: analysis.OpOpexBreakdown, any: []string{"spend", "spent", "cost", "expense"}},
	{op: analysis.OpRevenueAnalysis, any: []string{"revenue"}},
}

// Classify routes question text to an operation. It never refuses: text
// matching no rule lands on the dataset overview, which at least tells
// the asker what data exists.
func Classify(text string) analysis.Operation {
	q := strings.ToLower(text)
	for _, r := range rules {
		if containsAny(q, r.any) && (len(r.with) == 0 || containsAny(q, r.with)) {
			return r.op
		}
	}
	return analysis.OpDataCoverage
}

func containsAny(q string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(q, t) {
			return true
		}
	}
	return false
}
