package llm

import (
	"context"

	"expense-tracker/internal/entity"
)

// ExtractRequest carries an encoded receipt to a vision model.
type ExtractRequest struct {
	ImageBase64 string
	MimeType    string
}

// VisionExtractor is the contract every cloud provider client implements:
// send the document with the structured-extraction prompt, return the parsed
// fields plus the raw reply for logging. Failures are plain errors; the
// strategy layer decides on fallback.
type VisionExtractor interface {
	Name() string
	ExtractFields(ctx context.Context, req ExtractRequest) (entity.ExtractedFields, []byte, error)
}
