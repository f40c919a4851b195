package pipeline

import (
	"errors"
	"fmt"
	"log/slog"

	"expense-tracker/constants"
	"expense-tracker/internal/extract"
	"expense-tracker/internal/llm"
	"expense-tracker/internal/llm/claude"
	"expense-tracker/internal/llm/gemini"
	"expense-tracker/internal/llm/openai"
	"expense-tracker/internal/llm/openrouter"
)

var (
	// ErrMissingCredential means a cloud strategy was selected without a
	// credential. It is raised at construction time, before any network
	// call could happen.
	ErrMissingCredential = errors.New("missing credential for cloud strategy")
	ErrUnknownStrategy   = errors.New("unknown strategy")
)

// Selector is the caller-supplied strategy choice. Nothing here is sourced
// from global state; credentials travel with the request.
type Selector struct {
	Strategy   string `json:"strategy"`
	Model      string `json:"model,omitempty"`
	Credential string `json:"credential,omitempty"`
}

// StrategyFactory builds strategies around one shared text extractor.
type StrategyFactory struct {
	extractor *extract.Extractor
	logger    *slog.Logger
}

func NewStrategyFactory(extractor *extract.Extractor, logger *slog.Logger) *StrategyFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &StrategyFactory{extractor: extractor, logger: logger}
}

// New maps a selector token onto a concrete strategy.
func (f *StrategyFactory) New(sel Selector) (Strategy, error) {
	builtin := NewBuiltin(f.extractor, f.logger)
	if sel.Strategy == constants.StrategyBuiltin || sel.Strategy == "" {
		return builtin, nil
	}

	if sel.Credential == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingCredential, sel.Strategy)
	}

	var provider llm.VisionExtractor
	switch sel.Strategy {
	case constants.StrategyOpenAI:
		provider = openai.NewClient(openai.Config{APIKey: sel.Credential, Model: sel.Model}, f.logger)
	case constants.StrategyClaude:
		provider = claude.NewClient(claude.Config{APIKey: sel.Credential, Model: sel.Model}, f.logger)
	case constants.StrategyGemini:
		provider = gemini.NewClient(gemini.Config{
			APIKey:   sel.Credential,
			Model:    sel.Model,
			Refiners: []llm.RefineFunc{llm.RefineRideshareVendor},
		}, f.logger)
	case constants.StrategyOpenRouter:
		provider = openrouter.NewClient(openrouter.Config{
			APIKey:   sel.Credential,
			Model:    sel.Model,
			Refiners: []llm.RefineFunc{llm.RefineRideshareVendor},
		}, f.logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, sel.Strategy)
	}
	return NewCloud(provider, builtin, f.logger), nil
}
