package heuristics

import "testing"

func TestFindLocation(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"city state zip", "Starbucks\n123 Main St, Springfield, IL 62704\n", "Springfield"},
		{"zip plus four", "Somewhere, CA 94105-1234", "Somewhere"},
		{"city state no zip", "store #42\nPortland, OR\n", "Portland"},
		{"zip rule beats earlier state line", "Portland, OR\nSpringfield, IL 62704", "Springfield"},
		{"street address whole line", "visit us\n742 Evergreen Terrace Ave\n", "742 Evergreen Terrace Ave"},
		{"street address before comma", "400 Oak Rd, Suite 12", "400 Oak Rd"},
		{"street line with total skipped", "total 12 Main St 4.00", ""},
		{"no location", "just words here", ""},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FindLocation(tc.text); got != tc.expected {
				t.Fatalf("FindLocation(%q) = %q, want %q", tc.text, got, tc.expected)
			}
		})
	}
}
