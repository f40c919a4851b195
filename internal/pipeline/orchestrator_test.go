package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"expense-tracker/internal/entity"
	"expense-tracker/internal/extract"
)

// stubStrategy returns canned fields without touching any extractor.
type stubStrategy struct {
	fields entity.ExtractedFields
	method string
	err    error
}

func (s stubStrategy) Name() string { return s.method }

func (s stubStrategy) Run(context.Context, entity.RawDocument) (entity.ExtractedFields, string, error) {
	return s.fields, s.method, s.err
}

func strptr(s string) *string { return &s }

func TestExtractNeverErrors(t *testing.T) {
	o := NewOrchestrator(nil)

	t.Run("unsupported media type", func(t *testing.T) {
		strat := stubStrategy{method: "builtin", err: extract.ErrUnsupportedMediaType}
		doc := entity.RawDocument{Content: []byte("x"), MediaType: "text/plain"}

		out := o.Extract(context.Background(), doc, strat)
		require.False(t, out.Attempted)
		require.Nil(t, out.Fields.Date)
		require.Nil(t, out.Fields.Cost)
		require.Nil(t, out.Fields.Vendor)
		require.Nil(t, out.Fields.Location)
	})

	t.Run("text extraction failure", func(t *testing.T) {
		strat := stubStrategy{method: "builtin", err: extract.ErrTextExtractionFailed}
		out := o.Extract(context.Background(), entity.RawDocument{MediaType: "image/png"}, strat)
		require.False(t, out.Attempted)
	})

	t.Run("success", func(t *testing.T) {
		strat := stubStrategy{
			method: "openai",
			fields: entity.ExtractedFields{Date: strptr("2024-03-01"), Category: "Dining"},
		}
		out := o.Extract(context.Background(), entity.RawDocument{MediaType: "image/png"}, strat)
		require.True(t, out.Attempted)
		require.Equal(t, "openai", out.Method)
		require.Equal(t, "2024-03-01", *out.Fields.Date)
	})
}

func TestExtractAndMergePrecedence(t *testing.T) {
	o := NewOrchestrator(nil)
	strat := stubStrategy{
		method: "builtin",
		fields: entity.ExtractedFields{
			Date:     strptr("2024-03-01"),
			Cost:     strptr("9.99"),
			Category: "Dining",
		},
	}

	draft, rej := o.ExtractAndMerge(context.Background(), entity.RawDocument{MediaType: "image/png"}, strat,
		entity.FormOverrides{Cost: "12.50"})
	require.Nil(t, rej)
	require.Equal(t, "12.50", *draft.Fields.Cost)
	require.Equal(t, "2024-03-01", *draft.Fields.Date)
	require.Equal(t, "builtin", draft.Method)
}

func TestExtractAndMergeRejectsMissingRequiredFields(t *testing.T) {
	o := NewOrchestrator(nil)

	t.Run("both missing", func(t *testing.T) {
		strat := stubStrategy{method: "builtin", fields: entity.ExtractedFields{Category: "Expense"}}
		draft, rej := o.ExtractAndMerge(context.Background(), entity.RawDocument{MediaType: "image/png"}, strat,
			entity.FormOverrides{})
		require.Nil(t, draft)
		require.NotNil(t, rej)
		require.True(t, rej.MissingDate)
		require.True(t, rej.MissingCost)
	})

	t.Run("cost must be positive", func(t *testing.T) {
		strat := stubStrategy{
			method: "builtin",
			fields: entity.ExtractedFields{Date: strptr("2024-03-01"), Cost: strptr("0.00"), Category: "Expense"},
		}
		draft, rej := o.ExtractAndMerge(context.Background(), entity.RawDocument{MediaType: "image/png"}, strat,
			entity.FormOverrides{})
		require.Nil(t, draft)
		require.NotNil(t, rej)
		require.False(t, rej.MissingDate)
		require.True(t, rej.MissingCost)
	})

	t.Run("overrides can satisfy requirements alone", func(t *testing.T) {
		strat := stubStrategy{method: "builtin", err: extract.ErrTextExtractionFailed}
		draft, rej := o.ExtractAndMerge(context.Background(), entity.RawDocument{MediaType: "image/png"}, strat,
			entity.FormOverrides{Date: "2024-05-05", Cost: "31.10", Trip: "berlin"})
		require.Nil(t, rej)
		require.Equal(t, "berlin", draft.Trip)
		require.Equal(t, "2024-05-05", *draft.Fields.Date)
		require.Equal(t, "Expense", draft.Fields.Category)
	})
}
