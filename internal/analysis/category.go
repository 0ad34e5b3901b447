package analysis

import "strings"

// spendCategories are the Opex category keywords scanned for in question
// text, in match precedence order. The name doubles as the suffix of the
// ledger label ("Marketing" → "Opex:Marketing").
var spendCategories = []string{"Marketing", "Sales", "R&D", "Admin"}

// CategoryFromText finds the first spend-category keyword mentioned in
// the question, case-insensitively. "How much did we spend on marketing"
// yields ("Marketing", true).
func CategoryFromText(text string) (string, bool) {
	q := strings.ToLower(text)
	for _, c := range spendCategories {
		if strings.Contains(q, strings.ToLower(c)) {
			return c, true
		}
	}
	return "", false
}
