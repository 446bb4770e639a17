package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		GitHubToken:    "ghp_test",
		WebhookSecret:  "hook-secret",
		AIProvider:     ProviderGemini,
		GeminiAPIKey:   "gm-key",
		GeminiModel:    "gemini-1.5-flash",
		HandlerTimeout: 120 * time.Second,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid gemini config",
			mutate: func(c *Config) {},
		},
		{
			name: "valid anthropic config",
			mutate: func(c *Config) {
				c.AIProvider = ProviderAnthropic
				c.AnthropicAPIKey = "sk-ant"
				c.AnthropicModel = "claude-3-5-sonnet-20241022"
			},
		},
		{
			name:    "missing github token",
			mutate:  func(c *Config) { c.GitHubToken = "" },
			wantErr: "GITHUB_TOKEN",
		},
		{
			name:    "missing webhook secret",
			mutate:  func(c *Config) { c.WebhookSecret = "" },
			wantErr: "GITHUB_WEBHOOK_SECRET",
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.AIProvider = "llama" },
			wantErr: "AI_PROVIDER",
		},
		{
			name:    "gemini without key",
			mutate:  func(c *Config) { c.GeminiAPIKey = "" },
			wantErr: "GEMINI_API_KEY",
		},
		{
			name:    "gemini model not in allow-list",
			mutate:  func(c *Config) { c.GeminiModel = "gemini-9000" },
			wantErr: "GEMINI_MODEL",
		},
		{
			name: "anthropic without key",
			mutate: func(c *Config) {
				c.AIProvider = ProviderAnthropic
				c.AnthropicAPIKey = ""
			},
			wantErr: "ANTHROPIC_API_KEY",
		},
		{
			name: "anthropic model not in allow-list",
			mutate: func(c *Config) {
				c.AIProvider = ProviderAnthropic
				c.AnthropicAPIKey = "sk-ant"
				c.AnthropicModel = "claude-zero"
			},
			wantErr: "ANTHROPIC_MODEL",
		},
		{
			name:    "non-positive handler timeout",
			mutate:  func(c *Config) { c.HandlerTimeout = 0 },
			wantErr: "HANDLER_TIMEOUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestEmailEnabled(t *testing.T) {
	cfg := validConfig()
	assert.False(t, cfg.EmailEnabled())

	cfg.ResendAPIKey = "re_key"
	assert.False(t, cfg.EmailEnabled(), "API key alone should not enable email")

	cfg.OwnerEmail = "owner@example.com"
	assert.True(t, cfg.EmailEnabled())
}

func TestModel(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "gemini-1.5-flash", cfg.Model())

	cfg.AIProvider = ProviderAnthropic
	cfg.AnthropicModel = "claude-3-5-haiku-20241022"
	assert.Equal(t, "claude-3-5-haiku-20241022", cfg.Model())
}
