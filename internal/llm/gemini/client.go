package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"idea-analyzer/internal/llm"
	"idea-analyzer/internal/shared/telemetry"
	"idea-analyzer/internal/shared/util"
)

const (
	DefaultModel   = "gemini-1.5-flash"
	defaultTimeout = 120 * time.Second
)

// contentGenerator is the subset of *genai.Models used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements llm.Client using the Gemini API.
type Client struct {
	models  contentGenerator
	model   string
	timeout time.Duration
}

var _ llm.Client = (*Client)(nil)

// NewClient constructs a Gemini client. An empty model falls back to DefaultModel and a
// non-positive timeout to two minutes.
func NewClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return newClient(gc.Models, model, timeout), nil
}

func newClient(models contentGenerator, model string, timeout time.Duration) *Client {
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{models: models, model: model, timeout: timeout}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Generate sends a single-turn text prompt and returns the model's text answer.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	fields := map[string]any{
		"model":       c.model,
		"prompt_hash": util.ShortHash(prompt),
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		fields["err"] = err.Error()
		telemetry.Error("llm.request_failed", fields)
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil {
		return "", llm.ErrEmptyResponse
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: blocked (%s)", llm.ErrEmptyResponse, resp.PromptFeedback.BlockReason)
		}
		return "", llm.ErrEmptyResponse
	}
	if resp.UsageMetadata != nil {
		fields["prompt_tokens"] = resp.UsageMetadata.PromptTokenCount
		fields["output_tokens"] = resp.UsageMetadata.CandidatesTokenCount
	}
	telemetry.Info("llm.request", fields)
	return text, nil
}
