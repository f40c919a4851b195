package llm

import (
	"strings"

	"expense-tracker/constants"
	"expense-tracker/internal/entity"
)

// RefineFunc is a provider-specific correction applied after the generic
// JSON parse. Providers attach the hooks they need; shared parsing stays
// untouched when a provider is added or removed.
type RefineFunc func(*entity.ExtractedFields)

var rideshareBrands = []string{"Uber", "Lyft"}

// RefineRideshareVendor prioritizes a recognized rideshare brand as the
// vendor. Rideshare receipts tend to surface the payments subsidiary
// ("Uber Technologies, Inc.") or bury the brand inside the location field.
func RefineRideshareVendor(f *entity.ExtractedFields) {
	for _, brand := range rideshareBrands {
		if hasBrand(f.Vendor, brand) || hasBrand(f.Location, brand) {
			v := brand
			f.Vendor = &v
			if f.Category == string(constants.DefaultCategory) {
				f.Category = string(constants.Transportation)
			}
			return
		}
	}
}

func hasBrand(s *string, brand string) bool {
	return s != nil && strings.Contains(strings.ToLower(*s), strings.ToLower(brand))
}
