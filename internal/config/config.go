// Package config provides configuration management for the steward service.
package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
)

// Providers the completion client knows how to construct.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Model identifiers accepted per provider. Anything else is rejected at
// startup rather than at request time.
var (
	GeminiModels = []string{
		"gemini-pro",
		"gemini-1.5-pro",
		"gemini-1.5-flash",
	}
	AnthropicModels = []string{
		"claude-3-5-sonnet-20241022",
		"claude-3-5-haiku-20241022",
		"claude-3-opus-20240229",
	}
)

// Config holds the configuration for the steward service
type Config struct {
	GitHubToken   string `env:"GITHUB_TOKEN"`
	WebhookSecret string `env:"GITHUB_WEBHOOK_SECRET"`

	AIProvider      string `env:"AI_PROVIDER" envDefault:"gemini"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	GeminiModel     string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string `env:"ANTHROPIC_MODEL" envDefault:"claude-3-5-sonnet-20241022"`

	// SystemPrompt overrides the built-in persona instructions when set.
	SystemPrompt string `env:"SYSTEM_PROMPT"`

	// Email notifications are optional: both fields must be set to enable them.
	ResendAPIKey string `env:"RESEND_API_KEY"`
	OwnerEmail   string `env:"OWNER_EMAIL"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Port     int    `env:"PORT" envDefault:"8080"`

	// HandlerTimeout bounds total processing time for one webhook delivery,
	// including AI retries and rate-limit throttling.
	HandlerTimeout time.Duration `env:"HANDLER_TIMEOUT" envDefault:"120s"`
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	var config Config
	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return config, nil
}

// Validate checks if the required configuration is present
func (c Config) Validate() error {
	if c.GitHubToken == "" {
		return fmt.Errorf("missing required environment variable: GITHUB_TOKEN")
	}
	if c.WebhookSecret == "" {
		return fmt.Errorf("missing required environment variable: GITHUB_WEBHOOK_SECRET")
	}

	switch c.AIProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when AI_PROVIDER is %q", ProviderGemini)
		}
		if !slices.Contains(GeminiModels, c.GeminiModel) {
			return fmt.Errorf("GEMINI_MODEL must be one of %v, got %q", GeminiModels, c.GeminiModel)
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when AI_PROVIDER is %q", ProviderAnthropic)
		}
		if !slices.Contains(AnthropicModels, c.AnthropicModel) {
			return fmt.Errorf("ANTHROPIC_MODEL must be one of %v, got %q", AnthropicModels, c.AnthropicModel)
		}
	default:
		return fmt.Errorf("AI_PROVIDER must be %q or %q, got %q", ProviderGemini, ProviderAnthropic, c.AIProvider)
	}

	if c.HandlerTimeout <= 0 {
		return fmt.Errorf("HANDLER_TIMEOUT must be positive, got %s", c.HandlerTimeout)
	}

	return nil
}

// Model returns the model identifier for the configured provider.
func (c Config) Model() string {
	if c.AIProvider == ProviderAnthropic {
		return c.AnthropicModel
	}
	return c.GeminiModel
}

// EmailEnabled reports whether email notifications are configured.
func (c Config) EmailEnabled() bool {
	return c.ResendAPIKey != "" && c.OwnerEmail != ""
}
