package types

import "context"

// Generator produces text completions from prompts
type Generator interface {
	Complete(ctx context.Context, prompt string, opts map[string]any) (string, error)
	Model() string
}

// Keys understood in the opts map passed to Complete
const (
	OptSystem      = "system"
	OptMaxTokens   = "max_tokens"
	OptTemperature = "temperature"
	// OptJSON asks the provider for a JSON object reply where it supports it
	OptJSON = "json"
)

// GenerationOptions contains options for text generation
type GenerationOptions struct {
	System      string
	MaxTokens   int
	Temperature float64
	JSON        bool
}

// ParseOptions reads the opts map, keeping the given defaults for missing keys
func ParseOptions(opts map[string]any, defaults GenerationOptions) GenerationOptions {
	out := defaults
	if val, ok := opts[OptSystem].(string); ok && val != "" {
		out.System = val
	}
	if val, ok := opts[OptMaxTokens].(int); ok && val > 0 {
		out.MaxTokens = val
	}
	if val, ok := opts[OptTemperature].(float64); ok {
		out.Temperature = val
	}
	if val, ok := opts[OptJSON].(bool); ok {
		out.JSON = val
	}
	return out
}
