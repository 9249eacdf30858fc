// internal/common/genai/client.go
package genai

import (
	"context"
	"fmt"
	"time"

	"prospector/internal/common/metrics"

	"google.golang.org/genai"
)

// Request describes one text-generation call. Grounded attaches the Google
// Search tool so the model can consult live web results before answering;
// that capability lives entirely on the collaborator's side.
type Request struct {
	Prompt            string
	SystemInstruction string
	Grounded          bool
}

// Generator is the AI text-generation collaborator: prompt text in, raw
// free-form text out. Every call is fallible and potentially slow.
type Generator interface {
	GenerateText(ctx context.Context, req Request) (string, error)
}

// GeminiClient implements Generator against the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("genai API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) GenerateText(ctx context.Context, req Request) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.Grounded {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), cfg)
	metrics.CollaboratorDuration.WithLabelValues("genai").Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("genai generate failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("genai returned an empty response")
	}
	return text, nil
}

// Model returns the configured model name.
func (c *GeminiClient) Model() string {
	return c.model
}
