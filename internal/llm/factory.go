package llm

import (
	"fmt"

	"github.com/matthieukhl/nexsales/internal/config"
	"github.com/matthieukhl/nexsales/internal/llm/generate"
	"github.com/matthieukhl/nexsales/internal/types"
)

// NewGenerator creates a generator based on configuration
func NewGenerator(cfg *config.LLMConfig) (types.Generator, error) {
	g := cfg.Generator
	opts := []generate.Option{
		generate.WithBaseURL(g.BaseURL),
		generate.WithTimeout(g.Timeout),
	}

	switch g.Provider {
	case "openai":
		return generate.NewOpenAIGenerator(g.Model, g.APIKeyEnv, g.APIKey, opts...)
	case "anthropic":
		return generate.NewAnthropicGenerator(g.Model, g.APIKeyEnv, g.APIKey, opts...)
	case "gemini":
		return generate.NewGeminiGenerator(g.Model, g.APIKeyEnv, g.APIKey, opts...)
	case "mock":
		return generate.NewMockGenerator(g.Model), nil
	default:
		return nil, fmt.Errorf("unsupported generator provider: %s", g.Provider)
	}
}
