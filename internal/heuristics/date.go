package heuristics

import (
	"fmt"
	"regexp"
	"strconv"
)

// Date patterns, in priority order. The ISO form wins over slash and dot
// forms anywhere in the text.
var (
	reDateISO   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	reDateSlash = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4}|\d{2})\b`)
	reDateDot   = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(\d{4}|\d{2})\b`)
)

// FindDate scans the text for the first date-looking substring and returns it
// normalized to YYYY-MM-DD. Returns "" when nothing matches.
//
// When the matched groups fail month/day validation the raw matched substring
// is returned instead of "": downstream code expects to receive the literal
// text the match came from rather than losing it. That mirrors the historical
// behavior this parser replaces, malformed matches included.
func FindDate(text string) string {
	if m := reDateISO.FindStringSubmatch(text); m != nil {
		return normalizeDate(m[0], m[2], m[3], m[1])
	}
	if m := reDateSlash.FindStringSubmatch(text); m != nil {
		return normalizeDate(m[0], m[1], m[2], m[3])
	}
	if m := reDateDot.FindStringSubmatch(text); m != nil {
		return normalizeDate(m[0], m[1], m[2], m[3])
	}
	return ""
}

// normalizeDate builds YYYY-MM-DD from month/day/year groups, expanding
// 2-digit years (<70 -> 20xx, >=70 -> 19xx). On invalid month or day it
// returns the raw match unchanged.
func normalizeDate(raw, monthStr, dayStr, yearStr string) string {
	month, _ := strconv.Atoi(monthStr)
	day, _ := strconv.Atoi(dayStr)
	year, _ := strconv.Atoi(yearStr)
	if len(yearStr) == 2 {
		if year < 70 {
			year += 2000
		} else {
			year += 1900
		}
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return raw
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}
