package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"expense-tracker/internal/entity"
	"expense-tracker/internal/llm"
)

// Config for the OpenRouter client. The wire format is OpenAI-compatible
// chat/completions; only the endpoint and model naming differ.
type Config struct {
	APIKey   string
	BaseURL  string // default https://openrouter.ai/api/v1
	Model    string // e.g., "google/gemini-2.0-flash-001"
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
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "google/gemini-2.0-flash-001"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}, logger: logger}
}

func (c *Client) Name() string { return "openrouter" }

func (c *Client) ExtractFields(ctx context.Context, req llm.ExtractRequest) (entity.ExtractedFields, []byte, error) {
	dataURL := "data:" + req.MimeType + ";base64," + req.ImageBase64

	body := map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": llm.BuildExtractionPrompt()},
					{"type": "image_url", "image_url": map[string]any{"url": dataURL}},
				},
			},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	raw, _, err := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.logger)
	if err != nil {
		return entity.ExtractedFields{}, raw, fmt.Errorf("openrouter call: %w", err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return entity.ExtractedFields{}, raw, fmt.Errorf("decode openrouter response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return entity.ExtractedFields{}, raw, fmt.Errorf("no choices in openrouter response")
	}

	fields, err := llm.ParseFields(cc.Choices[0].Message.Content, c.logger)
	if err != nil {
		return entity.ExtractedFields{}, raw, err
	}
	for _, refine := range c.cfg.Refiners {
		refine(&fields)
	}
	return fields, raw, nil
}
