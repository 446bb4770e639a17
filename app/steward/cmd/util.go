package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/stewardbot/steward/internal/ai"
	"github.com/stewardbot/steward/internal/bot"
	"github.com/stewardbot/steward/internal/config"
	"github.com/stewardbot/steward/internal/gh"
	"github.com/stewardbot/steward/internal/transport"
)

func setupContext(logger *slog.Logger) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupt
		logger.Info("interrupt signal detected, shutting down gracefully")
		cancel()
		<-interrupt
		logger.Error("forcing shutdown")
		os.Exit(1)
	}()

	return ctx
}

// newProvider constructs the configured completion backend.
func newProvider(ctx context.Context, cfg config.Config, logger *slog.Logger) (ai.Provider, error) {
	switch cfg.AIProvider {
	case config.ProviderAnthropic:
		rateLimitedHTTPClient := &http.Client{
			Transport: transport.WithRateLimiting(nil, logger),
		}
		return ai.NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel, rateLimitedHTTPClient), nil
	default:
		return ai.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	}
}

// repositoryAccessor adapts the concrete gh accessor to the interface the
// bot consumes.
type repositoryAccessor struct {
	accessor *gh.Accessor
}

func (ra repositoryAccessor) Resolve(ctx context.Context, owner, name string) (bot.Repository, error) {
	repo, err := ra.accessor.Resolve(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	return repo, nil
}
