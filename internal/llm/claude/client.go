package claude

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

const anthropicVersion = "2023-06-01"

// Config for the Anthropic messages client.
type Config struct {
	APIKey    string
	BaseURL   string // default https://api.anthropic.com
	Model     string // e.g., "claude-3-5-haiku-latest"
	Timeout   time.Duration
	MaxTokens int
	Refiners  []llm.RefineFunc
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}
	if cfg.Model == "" {
		cfg.Model = "claude-3-5-haiku-latest"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}, logger: logger}
}

func (c *Client) Name() string { return "claude" }

func (c *Client) ExtractFields(ctx context.Context, req llm.ExtractRequest) (entity.ExtractedFields, []byte, error) {
	body := map[string]any{
		"model":      c.cfg.Model,
		"max_tokens": c.cfg.MaxTokens,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{
						"type": "image",
						"source": map[string]any{
							"type":       "base64",
							"media_type": req.MimeType,
							"data":       req.ImageBase64,
						},
					},
					{"type": "text", "text": llm.BuildExtractionPrompt()},
				},
			},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/messages"
	headers := map[string]string{
		"x-api-key":         c.cfg.APIKey,
		"anthropic-version": anthropicVersion,
	}

	raw, _, err := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.logger)
	if err != nil {
		return entity.ExtractedFields{}, raw, fmt.Errorf("claude call: %w", err)
	}

	var mr struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(raw, &mr); err != nil {
		return entity.ExtractedFields{}, raw, fmt.Errorf("decode claude response: %w", err)
	}

	var reply string
	for _, block := range mr.Content {
		if block.Type == "text" {
			reply = block.Text
			break
		}
	}
	if reply == "" {
		return entity.ExtractedFields{}, raw, fmt.Errorf("no text block in claude response")
	}

	fields, err := llm.ParseFields(reply, c.logger)
	if err != nil {
		return entity.ExtractedFields{}, raw, err
	}
	for _, refine := range c.cfg.Refiners {
		refine(&fields)
	}
	return fields, raw, nil
}
