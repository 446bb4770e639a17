package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Provider is one LLM backend capable of turning a prompt into reply text.
type Provider interface {
	// Generate returns the model's reply text for the prompt.
	Generate(ctx context.Context, prompt Prompt) (string, error)
	// Name identifies the backend in logs and errors.
	Name() string
}

const defaultMaxAttempts = 3

// Client wraps a Provider with retries and backoff.
type Client struct {
	provider    Provider
	logger      *slog.Logger
	maxAttempts int

	sleep func(ctx context.Context, d time.Duration) error
}

func NewClient(provider Provider, logger *slog.Logger) *Client {
	return &Client{
		provider:    provider,
		logger:      logger,
		maxAttempts: defaultMaxAttempts,
		sleep:       sleepContext,
	}
}

// Generate asks the provider for a reply, retrying transient failures with
// exponential backoff. On exhaustion it returns a *GenerationError wrapping
// the last provider error.
func (c *Client) Generate(ctx context.Context, prompt Prompt) (string, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			wait := time.Duration(1<<attempt) * time.Second
			c.logger.Warn("retrying reply generation",
				"provider", c.provider.Name(), "attempt", attempt+1, "wait", wait)
			if err := c.sleep(ctx, wait); err != nil {
				return "", err
			}
		}

		text, err := c.provider.Generate(ctx, prompt)
		if err != nil {
			lastErr = err
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			lastErr = fmt.Errorf("provider returned an empty reply")
			continue
		}
		return text, nil
	}

	return "", &GenerationError{
		Provider: c.provider.Name(),
		Attempts: c.maxAttempts,
		Err:      lastErr,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
