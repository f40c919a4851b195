// Package heuristics holds the rule-based receipt field extractors. Each
// Find* function is pure, takes the OCR/PDF text and returns a best-guess
// value or "" (absence); none depends on another's result, so they may run
// in any order.
package heuristics

import "expense-tracker/internal/entity"

// ExtractAll runs every field extractor over the text and assembles the
// result record.
func ExtractAll(text string) entity.ExtractedFields {
	return entity.ExtractedFields{
		Date:     opt(FindDate(text)),
		Cost:     opt(FindCost(text)),
		Vendor:   opt(FindVendor(text)),
		Location: opt(FindLocation(text)),
		Category: FindCategory(text),
	}
}

func opt(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
