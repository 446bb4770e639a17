package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/stewardbot/steward/internal/ai"
	"github.com/stewardbot/steward/internal/bot"
	"github.com/stewardbot/steward/internal/gh"
	"github.com/stewardbot/steward/internal/notify"
	"github.com/stewardbot/steward/internal/webhook"
)

const shutdownGracePeriod = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook server",
	Long: `Starts the HTTP server that receives GitHub webhook deliveries and
processes issue, comment, and pull request events.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger()
	ctx := setupContext(logger)

	session, err := gh.NewSession(ctx, cfg.GitHubToken)
	if err != nil {
		return fmt.Errorf("failed to create GitHub session: %w", err)
	}
	guard := gh.NewRateGuard(session, logger)
	accessor := gh.NewAccessor(session, guard, logger)

	provider, err := newProvider(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create %s provider: %w", cfg.AIProvider, err)
	}
	if closer, ok := provider.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	composer, err := ai.NewComposer(cfg.SystemPrompt)
	if err != nil {
		return err
	}

	var notifier notify.Notifier = notify.Nop{}
	if cfg.EmailEnabled() {
		notifier = notify.NewEmailNotifier(cfg.ResendAPIKey, cfg.OwnerEmail, logger)
	}

	b := bot.New(
		repositoryAccessor{accessor: accessor},
		composer,
		ai.NewClient(provider, logger),
		notifier,
		session.Login(),
		logger,
	)

	router := webhook.NewRouter(b, logger)
	server := webhook.NewServer(router, cfg.WebhookSecret, cfg.HandlerTimeout, webhook.Meta{
		Login:        session.Login(),
		Provider:     cfg.AIProvider,
		Model:        cfg.Model(),
		EmailEnabled: cfg.EmailEnabled(),
	}, logger)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: server.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown did not complete cleanly", "error", err)
		}
	}()

	logger.Info("steward started",
		"login", session.Login(),
		"provider", cfg.AIProvider,
		"model", cfg.Model(),
		"email", cfg.EmailEnabled(),
		"addr", httpServer.Addr)

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
