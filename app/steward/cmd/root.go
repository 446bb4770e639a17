package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/stewardbot/steward/internal/config"
	"github.com/stewardbot/steward/internal/logging"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "steward",
	Short: "GitHub repository steward",
	Long: `Steward is a webhook-driven GitHub bot that looks after a repository's
issue and pull request threads. It settles competing assignment requests by
engagement, drafts personalized replies with an LLM, welcomes pull requests,
and emails the repository owner about noteworthy activity.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func loadConfig(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using environment variables")
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	return nil
}

func newLogger() *slog.Logger {
	return logging.New(os.Stderr, logging.ParseLevel(cfg.LogLevel))
}
