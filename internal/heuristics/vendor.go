package heuristics

import "strings"

// vendorDenylist marks receipt boilerplate that is never a merchant name.
var vendorDenylist = []string{
	"receipt", "invoice", "order", "date", "time", "customer",
	"phone", "tel", "fax", "www", "http", "cash", "card", "total", "amount",
}

// FindVendor returns the first line that looks like a merchant name: the
// vendor is assumed to usually appear first on a receipt, above the
// boilerplate. When every line is boilerplate the first non-empty line is
// returned anyway rather than nothing.
func FindVendor(text string) string {
	var first string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= 1 {
			continue
		}
		if first == "" {
			first = line
		}
		if containsAny(strings.ToLower(line), vendorDenylist) {
			continue
		}
		return line
	}
	return first
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
