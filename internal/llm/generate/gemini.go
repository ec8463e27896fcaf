package generate

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/matthieukhl/nexsales/internal/types"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type GeminiGenerator struct {
	apiKey string
	model  string
	client httpClient
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent        `json:"contents"`
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

func NewGeminiGenerator(model string, apiKeyEnv string, directAPIKey string, opts ...Option) (*GeminiGenerator, error) {
	apiKey, err := resolveAPIKey(apiKeyEnv, directAPIKey)
	if err != nil {
		return nil, err
	}

	return &GeminiGenerator{
		apiKey: apiKey,
		model:  model,
		client: newHTTPClient(geminiBaseURL, opts),
	}, nil
}

func (g *GeminiGenerator) Complete(ctx context.Context, prompt string, opts map[string]any) (string, error) {
	o := types.ParseOptions(opts, types.GenerationOptions{MaxTokens: 2048, Temperature: 0.2})

	req := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     o.Temperature,
			MaxOutputTokens: o.MaxTokens,
		},
	}
	if o.System != "" {
		req.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: o.System}}}
	}
	if o.JSON {
		req.GenerationConfig.ResponseMimeType = "application/json"
	}

	path := fmt.Sprintf("/models/%s:generateContent", url.PathEscape(g.model))
	headers := map[string]string{"x-goog-api-key": g.apiKey}

	var response geminiResponse
	if err := g.client.postJSON(ctx, "Gemini", path, headers, req, &response); err != nil {
		return "", err
	}

	if len(response.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	var sb strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}

func (g *GeminiGenerator) Model() string {
	return g.model
}

// Compile-time interface check
var _ types.Generator = (*GeminiGenerator)(nil)
