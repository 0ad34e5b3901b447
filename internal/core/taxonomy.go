package core

import "strings"

// AccountClass groups account categories into the classes the metric
// engine aggregates over.
type AccountClass int

const (
	ClassOther AccountClass = iota
	ClassRevenue
	ClassCOGS
	ClassOpex
)

const opexPrefix = "Opex:"

// ClassOf maps an account category label to its class. "Revenue" and any
// "Revenue:*" label are revenue lines, "COGS"/"COGS:*" cost of goods, and
// "Opex:*" operating expense. Matching is exact on the taxonomy's casing.
func ClassOf(category string) AccountClass {
	switch {
	case category == "Revenue" || strings.HasPrefix(category, "Revenue:"):
		return ClassRevenue
	case category == "COGS" || strings.HasPrefix(category, "COGS:"):
		return ClassCOGS
	case strings.HasPrefix(category, opexPrefix):
		return ClassOpex
	default:
		return ClassOther
	}
}

// IsRevenue reports whether the category is a revenue line.
func IsRevenue(category string) bool { return ClassOf(category) == ClassRevenue }

// IsCOGS reports whether the category is a cost-of-goods line.
func IsCOGS(category string) bool { return ClassOf(category) == ClassCOGS }

// IsOpex reports whether the category is an operating-expense line.
func IsOpex(category string) bool { return ClassOf(category) == ClassOpex }

// OpexLabel returns the category label for an Opex suffix, e.g.
// "Marketing" -> "Opex:Marketing".
func OpexLabel(suffix string) string {
	return opexPrefix + suffix
}

// OpexName strips the Opex: prefix for display. Labels without the
// prefix come back unchanged.
func OpexName(category string) string {
	return strings.TrimPrefix(category, opexPrefix)
}
