// Package pipeline orchestrates receipt field extraction: it picks a
// strategy from a caller-supplied selector, runs it, and merges the result
// with user-supplied overrides.
package pipeline

import (
	"context"
	"encoding/base64"
	"log/slog"

	"expense-tracker/constants"
	"expense-tracker/internal/entity"
	"expense-tracker/internal/extract"
	"expense-tracker/internal/heuristics"
	"expense-tracker/internal/llm"
)

// Strategy produces extracted fields for a document. The returned method tag
// names the strategy that actually produced the values; a cloud strategy
// that fell back reports "builtin".
type Strategy interface {
	Name() string
	Run(ctx context.Context, doc entity.RawDocument) (entity.ExtractedFields, string, error)
}

// Builtin composes the text extractor with the rule-based field heuristics.
type Builtin struct {
	extractor *extract.Extractor
	logger    *slog.Logger
}

func NewBuiltin(extractor *extract.Extractor, logger *slog.Logger) *Builtin {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builtin{extractor: extractor, logger: logger}
}

func (b *Builtin) Name() string { return constants.StrategyBuiltin }

func (b *Builtin) Run(ctx context.Context, doc entity.RawDocument) (entity.ExtractedFields, string, error) {
	text, err := b.extractor.ExtractText(ctx, doc)
	if err != nil {
		return entity.ExtractedFields{}, constants.ProvenanceBuiltin, err
	}
	return heuristics.ExtractAll(text), constants.ProvenanceBuiltin, nil
}

// Cloud sends the document to a vision model and falls back to the builtin
// strategy on any call or parse failure. The caller never sees the provider
// failure, only the eventual result and its method tag.
type Cloud struct {
	provider llm.VisionExtractor
	fallback *Builtin
	logger   *slog.Logger
}

func NewCloud(provider llm.VisionExtractor, fallback *Builtin, logger *slog.Logger) *Cloud {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cloud{provider: provider, fallback: fallback, logger: logger}
}

func (c *Cloud) Name() string { return c.provider.Name() }

func (c *Cloud) Run(ctx context.Context, doc entity.RawDocument) (entity.ExtractedFields, string, error) {
	// a document the pipeline cannot handle goes straight to the builtin
	// path so the caller gets the attempted=false semantics
	if constants.MapMediaTypeToFormat(doc.MediaType) == "" {
		return c.fallback.Run(ctx, doc)
	}

	req := llm.ExtractRequest{
		ImageBase64: base64.StdEncoding.EncodeToString(doc.Content),
		MimeType:    doc.MediaType,
	}
	fields, _, err := c.provider.ExtractFields(ctx, req)
	if err != nil {
		c.logger.Warn("pipeline.cloud.fallback",
			"provider", c.provider.Name(),
			"error", err,
		)
		return c.fallback.Run(ctx, doc)
	}
	return fields, c.provider.Name(), nil
}
