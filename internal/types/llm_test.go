package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOptions(t *testing.T) {
	defaults := GenerationOptions{System: "sys", MaxTokens: 100, Temperature: 0.7}

	assert.Equal(t, defaults, ParseOptions(nil, defaults))

	got := ParseOptions(map[string]any{
		OptSystem:      "other",
		OptMaxTokens:   0,
		OptTemperature: 0.0,
		OptJSON:        true,
	}, defaults)
	assert.Equal(t, GenerationOptions{System: "other", MaxTokens: 100, Temperature: 0, JSON: true}, got)
}
