package generate

import (
	"context"
	"fmt"

	"github.com/matthieukhl/nexsales/internal/types"
)

const openAIBaseURL = "https://api.openai.com/v1"

type OpenAIGenerator struct {
	apiKey string
	model  string
	client httpClient
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponseFormat struct {
	Type string `json:"type"`
}

type openAIRequest struct {
	Model          string                `json:"model"`
	Messages       []openAIMessage       `json:"messages"`
	MaxTokens      int                   `json:"max_tokens,omitempty"`
	Temperature    float64               `json:"temperature"`
	ResponseFormat *openAIResponseFormat `json:"response_format,omitempty"`
}

type openAIResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func NewOpenAIGenerator(model string, apiKeyEnv string, directAPIKey string, opts ...Option) (*OpenAIGenerator, error) {
	apiKey, err := resolveAPIKey(apiKeyEnv, directAPIKey)
	if err != nil {
		return nil, err
	}

	return &OpenAIGenerator{
		apiKey: apiKey,
		model:  model,
		client: newHTTPClient(openAIBaseURL, opts),
	}, nil
}

func (g *OpenAIGenerator) Complete(ctx context.Context, prompt string, opts map[string]any) (string, error) {
	o := types.ParseOptions(opts, types.GenerationOptions{MaxTokens: 2048, Temperature: 0.2})

	var messages []openAIMessage
	if o.System != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: o.System})
	}
	messages = append(messages, openAIMessage{Role: "user", Content: prompt})

	req := openAIRequest{
		Model:       g.model,
		Messages:    messages,
		MaxTokens:   o.MaxTokens,
		Temperature: o.Temperature,
	}
	if o.JSON {
		req.ResponseFormat = &openAIResponseFormat{Type: "json_object"}
	}

	var response openAIResponse
	headers := map[string]string{"Authorization": fmt.Sprintf("Bearer %s", g.apiKey)}
	if err := g.client.postJSON(ctx, "OpenAI", "/chat/completions", headers, req, &response); err != nil {
		return "", err
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return response.Choices[0].Message.Content, nil
}

func (g *OpenAIGenerator) Model() string {
	return g.model
}

// Compile-time interface check
var _ types.Generator = (*OpenAIGenerator)(nil)
