package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"expense-tracker/internal/entity"
	"expense-tracker/internal/llm"
)

// Config for the Gemini generateContent client.
type Config struct {
	APIKey   string
	BaseURL  string // default https://generativelanguage.googleapis.com/v1beta
	Model    string // e.g., "gemini-2.0-flash"
	Timeout  time.Duration
	Refiners []llm.RefineFunc
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}, logger: logger}
}

func (c *Client) Name() string { return "gemini" }

func (c *Client) ExtractFields(ctx context.Context, req llm.ExtractRequest) (entity.ExtractedFields, []byte, error) {
	body := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]any{
					{"inline_data": map[string]any{"mime_type": req.MimeType, "data": req.ImageBase64}},
					{"text": llm.BuildExtractionPrompt()},
				},
			},
		},
		"generationConfig": map[string]any{"responseMimeType": "application/json"},
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model, url.QueryEscape(c.cfg.APIKey))

	raw, _, err := llm.SendJSON(ctx, c.http, endpoint, body, nil, c.logger)
	if err != nil {
		return entity.ExtractedFields{}, raw, fmt.Errorf("gemini call: %w", err)
	}

	var gr struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &gr); err != nil {
		return entity.ExtractedFields{}, raw, fmt.Errorf("decode gemini response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return entity.ExtractedFields{}, raw, fmt.Errorf("no candidates in gemini response")
	}

	fields, err := llm.ParseFields(gr.Candidates[0].Content.Parts[0].Text, c.logger)
	if err != nil {
		return entity.ExtractedFields{}, raw, err
	}
	for _, refine := range c.cfg.Refiners {
		refine(&fields)
	}
	return fields, raw, nil
}
