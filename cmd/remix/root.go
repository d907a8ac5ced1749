package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mhpenta/remix"
	"github.com/mhpenta/remix/internal/config"
	"github.com/mhpenta/remix/internal/logging"
	"github.com/mhpenta/remix/provider/gemini"
)

// app carries state shared by every command.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger

	newGenerator func(ctx context.Context, pc *remix.ProviderConfig) (remix.Generator, error)
}

func newApp() *app {
	return &app{
		newGenerator: func(ctx context.Context, pc *remix.ProviderConfig) (remix.Generator, error) {
			return gemini.New(ctx, pc)
		},
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "remix",
		Short:             "Blend two images with a text prompt using Gemini",
		SilenceUsage:      true,
		PersistentPreRunE: a.loadConfig,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(a.serveCmd(), a.generateCmd(), a.configCmd(), a.modelsCmd())
	return root
}

func (a *app) loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	slog.SetDefault(a.logger)
	return nil
}

// requireCredentials fails fast when the Gemini key is missing.
func (a *app) requireCredentials(cmd *cobra.Command, args []string) error {
	return a.cfg.Validate()
}

func (a *app) generator(ctx context.Context) (remix.Generator, error) {
	return a.newGenerator(ctx, a.cfg.ProviderConfig())
}

func closeQuietly(logger *slog.Logger, c io.Closer) {
	if err := c.Close(); err != nil {
		logger.Warn("close failed", "error", err)
	}
}
