package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
llm:
  generator:
    provider: openai
    model: gpt-4o-mini
    api_key_env: OPENAI_API_KEY
    timeout: 15s
company:
  name: Acme
  currency: EUR
  tax_rate: "0.2"
store:
  seed_demo: false
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "openai", cfg.LLM.Generator.Provider)
	assert.Equal(t, 15*time.Second, cfg.LLM.Generator.Timeout)
	assert.False(t, cfg.Store.SeedDemo)
	assert.Equal(t, 25, cfg.Store.RestockBuffer)

	company, err := cfg.Company.Company()
	require.NoError(t, err)
	assert.Equal(t, "Acme", company.Name)
	assert.True(t, decimal.RequireFromString("0.2").Equal(company.TaxRate))
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	path := writeConfig(t, "company:\n  currency: USD\n")
	t.Setenv("NEXSALES_COMPANY_CURRENCY", "GBP")
	t.Setenv("NEXSALES_LLM_GENERATOR_PROVIDER", "anthropic")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "GBP", cfg.Company.Currency)
	assert.Equal(t, "anthropic", cfg.LLM.Generator.Provider)
}

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "mock", cfg.LLM.Generator.Provider)
	assert.Equal(t, "0.15", cfg.Company.TaxRate)
	assert.True(t, cfg.Store.SeedDemo)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad tax rate", "company:\n  tax_rate: abc\n"},
		{"negative tax rate", "company:\n  tax_rate: \"-0.1\"\n"},
		{"negative restock buffer", "store:\n  restock_buffer: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
