// pkg/embedding/gemini.go
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/cl0ver012/whd-ai-assistant/pkg/config"
)

// GeminiClient calls the Generative Language embedContent endpoint
type GeminiClient struct {
	cfg        *config.EmbeddingConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewGeminiClient creates a client for the configured model
func NewGeminiClient(cfg *config.EmbeddingConfig, logger *zap.Logger) (*GeminiClient, error) {
	if cfg == nil {
		return nil, errors.New("embedding configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.L()
	}
	return &GeminiClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.Named("gemini"),
	}, nil
}

// BuildURL constructs the embedContent endpoint for a model
func BuildURL(baseURL, model string) string {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}
	return baseURL + "/" + model + ":embedContent"
}

type embedRequest struct {
	Model    string       `json:"model"`
	Content  embedContent `json:"content"`
	TaskType string       `json:"taskType,omitempty"`
}

type embedContent struct {
	Parts []embedPart `json:"parts"`
}

type embedPart struct {
	Text string `json:"text"`
}

// BuildRequestBody creates the embedContent request body
func BuildRequestBody(model, taskType, text string) ([]byte, error) {
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}
	return json.Marshal(embedRequest{
		Model:    model,
		Content:  embedContent{Parts: []embedPart{{Text: text}}},
		TaskType: taskType,
	})
}

type embedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

// ParseResponse extracts the vector from an embedContent response
func ParseResponse(body []byte) ([]float32, error) {
	var resp embedResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse embedding response: %w", err)
	}
	if len(resp.Embedding.Values) == 0 {
		return nil, errors.New("no embedding values in response")
	}
	return resp.Embedding.Values, nil
}

// Embed sends one text and returns its vector
func (c *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := BuildRequestBody(c.cfg.Model, c.cfg.TaskType, text)
	if err != nil {
		return nil, fmt.Errorf("build embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, BuildURL(c.cfg.BaseURL, c.cfg.Model), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read embedding response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(respBody), 300)}
	}

	vec, err := ParseResponse(respBody)
	if err != nil {
		return nil, err
	}

	if c.cfg.Dimensions > 0 && len(vec) != c.cfg.Dimensions {
		c.logger.Warn("Embedding dimensions differ from configuration",
			zap.Int("expected", c.cfg.Dimensions),
			zap.Int("actual", len(vec)))
	}
	return vec, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
