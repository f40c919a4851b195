package heuristics

import (
	"strings"

	"expense-tracker/constants"
)

// FindCategory classifies the receipt text against the fixed category table.
// The scan is first-match: categories are tried in table order and each
// category's keywords in list order, so a match in an earlier category wins
// even when a later category's keyword appears earlier in the text. Returns
// the default label when nothing matches; never "".
func FindCategory(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range constants.CategoryTable() {
		for _, kw := range entry.Keywords {
			if strings.Contains(lower, kw) {
				return string(entry.Category)
			}
		}
	}
	return string(constants.DefaultCategory)
}
