package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"expense-tracker/constants"
	"expense-tracker/internal/entity"
)

var reISODate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// StripCodeFence removes a surrounding markdown code fence, with or without a
// language tag. Models fence their JSON replies often enough that this runs
// on every reply before parsing.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		// drop the language tag line ("json", "JSON", or empty)
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseFields turns a provider's reply text into ExtractedFields. The reply
// must contain one JSON object with the wire keys date, cost, vendor,
// location, type. Shape problems inside individual fields degrade that field
// to null; a reply with no usable JSON object at all is an error (callers
// fall back to the builtin strategy).
func ParseFields(reply string, logger *slog.Logger) (entity.ExtractedFields, error) {
	if logger == nil {
		logger = slog.Default()
	}

	body := StripCodeFence(reply)
	// tolerate prose around the object
	if i := strings.IndexByte(body, '{'); i >= 0 {
		if j := strings.LastIndexByte(body, '}'); j > i {
			body = body[i : j+1]
		}
	}

	raw := []byte(body)
	if err := ValidateJSONAgainstSchema(BuildReplySchema(), raw); err != nil {
		return entity.ExtractedFields{}, fmt.Errorf("provider reply unparseable: %w", err)
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return entity.ExtractedFields{}, fmt.Errorf("provider reply unparseable: %w", err)
	}

	fields := entity.ExtractedFields{
		Date:     coerceDate(m["date"]),
		Cost:     coerceCost(m["cost"]),
		Vendor:   coerceText(m["vendor"]),
		Location: coerceText(m["location"]),
		Category: coerceCategory(m["type"]),
	}

	logger.Debug("llm.parse.fields",
		"has_date", fields.Date != nil,
		"has_cost", fields.Cost != nil,
		"has_vendor", fields.Vendor != nil,
		"has_location", fields.Location != nil,
		"category", fields.Category,
	)
	return fields, nil
}

// coerceDate keeps strict YYYY-MM-DD values and nulls everything else.
func coerceDate(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if !reISODate.MatchString(s) {
		return nil
	}
	return &s
}

// coerceCost accepts a number or numeric string and reformats to two
// decimals; anything non-finite or non-numeric becomes null.
func coerceCost(v any) *string {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(strings.Trim(t, "$")), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	out := strconv.FormatFloat(f, 'f', 2, 64)
	return &out
}

func coerceText(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// coerceCategory defaults to the catch-all label on anything missing or
// unknown.
func coerceCategory(v any) string {
	s, ok := v.(string)
	if !ok {
		return string(constants.DefaultCategory)
	}
	s = strings.TrimSpace(s)
	if !constants.IsCategory(s) {
		return string(constants.DefaultCategory)
	}
	return s
}
