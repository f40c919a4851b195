package llm

import (
	"strings"

	"expense-tracker/constants"
)

// BuildExtractionPrompt returns the fixed structured-extraction instruction
// sent to every provider. The key names are wire contract; do not rename.
func BuildExtractionPrompt() string {
	parts := []string{
		"You are a receipt parser. Examine the attached receipt image and return ONLY one JSON object with exactly these keys: date, cost, vendor, location, type.",
		"Any value may be null when it is not visible on the receipt.",
		"date is the transaction date as YYYY-MM-DD.",
		"cost is the grand total as a decimal number with two fraction digits, no currency symbol.",
		"vendor is the merchant name as printed.",
		"location is the city or an address fragment.",
		"type is exactly one of: " + strings.Join(constants.AllCategories(), ", ") + ".",
		"Do not wrap the JSON in prose or markdown.",
	}
	return strings.Join(parts, " ")
}
