package heuristics

import (
	"regexp"
	"strconv"
	"strings"
)

// reAmount matches an optional-$, comma-grouped, two-decimal amount.
var reAmount = regexp.MustCompile(`\$?\d{1,3}(?:,\d{3})*\.\d{2}`)

// costKeywords tag the lines most likely to carry the receipt total.
var costKeywords = []string{"total", "amount", "balance", "due", "sum", "pay", "charge"}

// FindCost returns the receipt total as a two-decimal string, or "" when no
// amount appears anywhere.
//
// Receipts commonly show subtotal, tax and total as ascending amounts on
// consecutive lines; the largest amount on a keyword-tagged line approximates
// the total, with the whole-document maximum as a degraded fallback when no
// keyword line matches.
func FindCost(text string) string {
	lines := strings.Split(text, "\n")

	best, found := maxAmount(keywordLines(lines))
	if !found {
		best, found = maxAmount([]string{text})
	}
	if !found {
		return ""
	}
	return strconv.FormatFloat(best, 'f', 2, 64)
}

func keywordLines(lines []string) []string {
	var out []string
	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, kw := range costKeywords {
			if strings.Contains(lower, kw) {
				out = append(out, line)
				break
			}
		}
	}
	return out
}

func maxAmount(chunks []string) (float64, bool) {
	var best float64
	found := false
	for _, chunk := range chunks {
		for _, m := range reAmount.FindAllString(chunk, -1) {
			v, err := strconv.ParseFloat(strings.NewReplacer("$", "", ",", "").Replace(m), 64)
			if err != nil {
				continue
			}
			if !found || v > best {
				best = v
				found = true
			}
		}
	}
	return best, found
}
