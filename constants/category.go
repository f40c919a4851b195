package constants

// Category is an expense category label.
type Category string

const (
	Groceries      Category = "Groceries"
	Dining         Category = "Dining"
	Transportation Category = "Transportation"
	Shopping       Category = "Shopping"
	Utilities      Category = "Utilities"
	Entertainment  Category = "Entertainment"
	Healthcare     Category = "Healthcare"
	Travel         Category = "Travel"
	Office         Category = "Office"

	// DefaultCategory is used when no keyword matches.
	DefaultCategory Category = "Expense"
)

// CategoryKeywords pairs a category with the keywords that select it.
// Both the category order and the keyword order inside each entry are
// significant: classification is first-match, so reordering changes results.
type CategoryKeywords struct {
	Category Category
	Keywords []string
}

var categoryTable = []CategoryKeywords{
	{Groceries, []string{"grocery", "supermarket", "food", "produce", "meat", "dairy", "bakery"}},
	{Dining, []string{"restaurant", "cafe", "diner", "bistro", "bar", "pub", "eatery", "food court", "coffee"}},
	{Transportation, []string{"gas", "fuel", "parking", "taxi", "uber", "lyft", "transit", "train", "bus", "subway"}},
	{Shopping, []string{"clothing", "apparel", "shoes", "accessories", "department store", "mall"}},
	{Utilities, []string{"electric", "water", "gas", "internet", "phone", "utility", "bill"}},
	{Entertainment, []string{"movie", "theatre", "concert", "show", "event", "ticket"}},
	{Healthcare, []string{"doctor", "hospital", "clinic", "pharmacy", "medical", "dental", "vision"}},
	{Travel, []string{"hotel", "motel", "lodging", "airfare", "airline", "flight", "booking"}},
	{Office, []string{"office", "supplies", "stationery", "printing", "software", "hardware"}},
}

// CategoryTable returns the ordered category/keyword table.
func CategoryTable() []CategoryKeywords {
	return categoryTable
}

// AllCategories returns every label including the default, in table order.
func AllCategories() []string {
	out := make([]string, 0, len(categoryTable)+1)
	for _, e := range categoryTable {
		out = append(out, string(e.Category))
	}
	return append(out, string(DefaultCategory))
}

// IsCategory reports whether s is one of the known labels.
func IsCategory(s string) bool {
	if s == string(DefaultCategory) {
		return true
	}
	for _, e := range categoryTable {
		if s == string(e.Category) {
			return true
		}
	}
	return false
}
