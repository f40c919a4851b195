package heuristics

import (
	"regexp"
	"strings"
)

var (
	// "Springfield, IL 62704" / "Springfield, IL 62704-1234"
	reCityStateZip = regexp.MustCompile(`([A-Za-z][A-Za-z .'&-]*),\s*([A-Z]{2})\s+(\d{5}(?:-\d{4})?)\b`)
	// "Springfield, IL"
	reCityState = regexp.MustCompile(`([A-Za-z][A-Za-z .'&-]*),\s*([A-Z]{2})\b`)
	// "123 Main Street" and common abbreviations
	reStreet = regexp.MustCompile(`(?i)\b\d+\s+[A-Za-z0-9 .'&-]+?\s+(street|st|avenue|ave|road|rd|blvd|ln|dr)\b`)

	streetDenylist = []string{"total", "amount", "cash", "card"}
)

// FindLocation returns a city or address fragment, or "". Rules are tried in
// order over the whole text; the first rule with any hit wins.
func FindLocation(text string) string {
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		if m := reCityStateZip.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	for _, line := range lines {
		if m := reCityState.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	for _, line := range lines {
		if !reStreet.MatchString(line) || containsAny(strings.ToLower(line), streetDenylist) {
			continue
		}
		line = strings.TrimSpace(line)
		if i := strings.IndexByte(line, ','); i >= 0 {
			return strings.TrimSpace(line[:i])
		}
		return line
	}
	return ""
}
