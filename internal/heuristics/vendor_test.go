package heuristics

import "testing"

func TestFindVendor(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"first line is vendor", "Starbucks Coffee\n123 Main St\nTotal 5.25", "Starbucks Coffee"},
		{"skips boilerplate header", "RECEIPT\nJoe's Garage\nTotal 10.00", "Joe's Garage"},
		{"skips url line", "www.example.com\nCorner Deli\n", "Corner Deli"},
		{"skips short lines", "#\nA\nFresh Mart", "Fresh Mart"},
		{"all boilerplate falls back to first line", "Receipt\nInvoice\nTotal 9.99", "Receipt"},
		{"blank leading lines", "\n\n  Trader Joe's  \n", "Trader Joe's"},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FindVendor(tc.text); got != tc.expected {
				t.Fatalf("FindVendor(%q) = %q, want %q", tc.text, got, tc.expected)
			}
		})
	}
}
