package entity

// RawDocument is an uploaded receipt as received from the caller. It lives
// for the duration of one extraction request.
type RawDocument struct {
	Content   []byte
	MediaType string
}

// ExtractedFields holds the best-guess values pulled from a receipt. Every
// pointer field is independently nullable: the extractors never fail as a
// group, each may find or miss its target on its own.
//
// The JSON names mirror the cloud-provider wire contract and must not change.
type ExtractedFields struct {
	Date     *string `json:"date"`
	Cost     *string `json:"cost"` // decimal string, two fraction digits
	Vendor   *string `json:"vendor"`
	Location *string `json:"location"`
	Category string  `json:"type"` // one of constants.AllCategories; "" only when extraction was not attempted
}

// ExtractionOutcome is the result of one extraction call. Attempted is false
// only when the document's media type is unsupported or text extraction
// itself failed. Method records which strategy actually produced the values;
// a cloud strategy that fell back reports "builtin".
type ExtractionOutcome struct {
	Fields    ExtractedFields `json:"fields"`
	Attempted bool            `json:"attempted"`
	Method    string          `json:"method"`
}

// FormOverrides carries caller-supplied field values for create/update flows.
// Empty strings mean "no override".
type FormOverrides struct {
	Date     string
	Cost     string
	Vendor   string
	Location string
	Category string
	Trip     string
}

// MergedExpenseDraft combines extracted fields with user overrides under
// strict precedence: non-empty override > extracted value > absent.
type MergedExpenseDraft struct {
	Fields ExtractedFields `json:"fields"`
	Trip   string          `json:"trip,omitempty"`
	Method string          `json:"method"`
}

// RejectionReason reports which required fields the merged draft is missing.
// It is a normal return value, not an error: callers turn it into a
// user-facing message prompting a clearer image or manual entry.
type RejectionReason struct {
	MissingDate bool `json:"missing_date"`
	MissingCost bool `json:"missing_cost"`
}
