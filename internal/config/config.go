package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matthieukhl/nexsales/internal/models"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Company CompanyConfig `mapstructure:"company"`
	Log     LogConfig     `mapstructure:"log"`
	Store   StoreConfig   `mapstructure:"store"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// Mode is the gin mode: debug, release or test
	Mode string `mapstructure:"mode"`
}

type LLMConfig struct {
	Generator ProviderConfig `mapstructure:"generator"`
}

type ProviderConfig struct {
	Provider  string        `mapstructure:"provider"`
	Model     string        `mapstructure:"model"`
	APIKeyEnv string        `mapstructure:"api_key_env"`
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type CompanyConfig struct {
	Name     string `mapstructure:"name"`
	Currency string `mapstructure:"currency"`
	// TaxRate is kept as text so values like 0.15 stay exact
	TaxRate string `mapstructure:"tax_rate"`
}

type LogConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

type StoreConfig struct {
	SeedDemo      bool `mapstructure:"seed_demo"`
	RestockBuffer int  `mapstructure:"restock_buffer"`
}

// Company converts the company section into the pricing settings
func (c CompanyConfig) Company() (models.CompanyConfig, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(c.TaxRate))
	if err != nil {
		return models.CompanyConfig{}, fmt.Errorf("invalid company.tax_rate %q: %w", c.TaxRate, err)
	}
	if rate.IsNegative() {
		return models.CompanyConfig{}, fmt.Errorf("company.tax_rate must not be negative, got %s", rate)
	}
	return models.CompanyConfig{Name: c.Name, Currency: c.Currency, TaxRate: rate}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")

	v.SetDefault("llm.generator.provider", "mock")
	v.SetDefault("llm.generator.model", "gemini-2.5-flash")
	v.SetDefault("llm.generator.api_key_env", "GEMINI_API_KEY")
	v.SetDefault("llm.generator.timeout", 60*time.Second)

	v.SetDefault("company.name", "NexSales Corp")
	v.SetDefault("company.currency", "USD")
	v.SetDefault("company.tax_rate", "0.15")

	v.SetDefault("log.development", false)
	v.SetDefault("log.level", "info")

	v.SetDefault("store.seed_demo", true)
	v.SetDefault("store.restock_buffer", 25)
}

// LoadConfig loads configuration from config.yaml and environment variables.
// An explicit path must exist; otherwise the usual locations are searched
// and a missing file leaves the defaults in place.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./deploy/")
		v.AddConfigPath("./")
		v.AddConfigPath("$HOME/.nexsales/")
		v.AddConfigPath("/etc/nexsales/")
	}

	// NEXSALES_LLM_GENERATOR_PROVIDER overrides llm.generator.provider
	v.SetEnvPrefix("NEXSALES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if _, err := config.Company.Company(); err != nil {
		return nil, err
	}
	if config.Store.RestockBuffer < 0 {
		return nil, fmt.Errorf("store.restock_buffer must not be negative, got %d", config.Store.RestockBuffer)
	}

	return &config, nil
}
