package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/embedchat-ai/embedchat/pkg/cache"
	"github.com/embedchat-ai/embedchat/pkg/config"
	"github.com/embedchat-ai/embedchat/pkg/llm"
	"github.com/embedchat-ai/embedchat/pkg/models"
	"github.com/embedchat-ai/embedchat/pkg/server"
	storesqlite "github.com/embedchat-ai/embedchat/pkg/store/sqlite"
	"github.com/embedchat-ai/embedchat/pkg/widget"
	"github.com/embedchat-ai/embedchat/pkg/wikipedia"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the chat widget server",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger := newLogger(cfg.LogLevel)
			slog.SetDefault(logger)

			deps := server.Deps{
				Model: llm.New(cfg.Model),
			}

			if cfg.Cache.Enabled {
				deps.Responses = cache.NewWeighted[string](cfg.Cache.MaxWeight, cache.StringWeight)
			}
			if cfg.Wikipedia.Enabled {
				deps.Wiki = wikipedia.New(cfg.Wikipedia)
				deps.WikiLookups = cache.NewCount[*models.WikiResult](cfg.Wikipedia.MaxItems)
			}

			if cfg.DBPath != "" {
				store, err := storesqlite.New(cfg.DBPath)
				if err != nil {
					return fmt.Errorf("init transcript store: %w", err)
				}
				defer func() { _ = store.Close() }()
				deps.Transcripts = store
			}

			deps.Widget, err = widget.NewRenderer(cfg.Widget)
			if err != nil {
				return fmt.Errorf("render widget assets: %w", err)
			}

			srv := server.New(cfg, logger, deps)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info("starting embedchat", "config", configPath, "model", cfg.Model.Name)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "embedchat.yaml", "path to config file")
	return cmd
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: lvl}))
}
