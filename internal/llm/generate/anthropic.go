package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/matthieukhl/nexsales/internal/types"
)

const anthropicBaseURL = "https://api.anthropic.com/v1"

type AnthropicGenerator struct {
	apiKey string
	model  string
	client httpClient
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature"`
}

type anthropicResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
}

func NewAnthropicGenerator(model string, apiKeyEnv string, directAPIKey string, opts ...Option) (*AnthropicGenerator, error) {
	apiKey, err := resolveAPIKey(apiKeyEnv, directAPIKey)
	if err != nil {
		return nil, err
	}

	return &AnthropicGenerator{
		apiKey: apiKey,
		model:  model,
		client: newHTTPClient(anthropicBaseURL, opts),
	}, nil
}

// Complete ignores the JSON option; Messages has no JSON response mode, so
// the prompt itself must ask for a bare object.
func (g *AnthropicGenerator) Complete(ctx context.Context, prompt string, opts map[string]any) (string, error) {
	o := types.ParseOptions(opts, types.GenerationOptions{MaxTokens: 2048, Temperature: 0.2})

	req := anthropicRequest{
		Model:       g.model,
		MaxTokens:   o.MaxTokens,
		System:      o.System,
		Temperature: o.Temperature,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	}

	headers := map[string]string{
		"x-api-key":         g.apiKey,
		"anthropic-version": "2023-06-01",
	}

	var response anthropicResponse
	if err := g.client.postJSON(ctx, "Anthropic", "/messages", headers, req, &response); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no content in response")
	}

	return sb.String(), nil
}

func (g *AnthropicGenerator) Model() string {
	return g.model
}

// Compile-time interface check
var _ types.Generator = (*AnthropicGenerator)(nil)
