package pipeline

import (
	"context"
	"log/slog"
	"strconv"

	"expense-tracker/constants"
	"expense-tracker/internal/entity"
)

// Orchestrator runs a strategy over a document and turns the result into an
// outcome value. Extraction failure is a value, not a fault: no error from
// the underlying strategy escapes to the caller.
type Orchestrator struct {
	logger *slog.Logger
}

func NewOrchestrator(logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{logger: logger}
}

// Extract dispatches to the chosen strategy. Unsupported media or a text
// extraction failure yields attempted=false with all fields null.
func (o *Orchestrator) Extract(ctx context.Context, doc entity.RawDocument, strat Strategy) entity.ExtractionOutcome {
	fields, method, err := strat.Run(ctx, doc)
	if err != nil {
		o.logger.Warn("pipeline.extract.not_attempted",
			"strategy", strat.Name(),
			"media_type", doc.MediaType,
			"error", err,
		)
		return entity.ExtractionOutcome{Attempted: false, Method: method}
	}

	o.logger.Info("pipeline.extract.ok",
		"strategy", strat.Name(),
		"method", method,
		"has_date", fields.Date != nil,
		"has_cost", fields.Cost != nil,
	)
	return entity.ExtractionOutcome{Fields: fields, Attempted: true, Method: method}
}

// ExtractAndMerge extracts, then merges with the caller's form fields under
// strict precedence: explicit non-empty user input > extracted value >
// absent. The merged draft needs a date and a positive cost to be accepted;
// otherwise the rejection names each missing field independently so the
// caller can prompt for a clearer image or manual entry.
func (o *Orchestrator) ExtractAndMerge(ctx context.Context, doc entity.RawDocument, strat Strategy, ov entity.FormOverrides) (*entity.MergedExpenseDraft, *entity.RejectionReason) {
	outcome := o.Extract(ctx, doc, strat)
	merged := mergeFields(outcome.Fields, ov)

	var rej entity.RejectionReason
	if merged.Date == nil {
		rej.MissingDate = true
	}
	if !isPositiveAmount(merged.Cost) {
		rej.MissingCost = true
	}
	if rej.MissingDate || rej.MissingCost {
		o.logger.Info("pipeline.merge.rejected",
			"missing_date", rej.MissingDate,
			"missing_cost", rej.MissingCost,
			"method", outcome.Method,
		)
		return nil, &rej
	}

	return &entity.MergedExpenseDraft{
		Fields: merged,
		Trip:   ov.Trip,
		Method: outcome.Method,
	}, nil
}

func mergeFields(extracted entity.ExtractedFields, ov entity.FormOverrides) entity.ExtractedFields {
	merged := entity.ExtractedFields{
		Date:     pick(ov.Date, extracted.Date),
		Cost:     pick(ov.Cost, extracted.Cost),
		Vendor:   pick(ov.Vendor, extracted.Vendor),
		Location: pick(ov.Location, extracted.Location),
		Category: extracted.Category,
	}
	if ov.Category != "" {
		merged.Category = ov.Category
	}
	if merged.Category == "" {
		merged.Category = string(constants.DefaultCategory)
	}
	return merged
}

func pick(override string, extracted *string) *string {
	if override != "" {
		return &override
	}
	return extracted
}

func isPositiveAmount(cost *string) bool {
	if cost == nil {
		return false
	}
	v, err := strconv.ParseFloat(*cost, 64)
	return err == nil && v > 0
}
