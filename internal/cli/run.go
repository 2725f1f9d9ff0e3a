package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jeyoh/moneyball/internal/bot"
	"github.com/jeyoh/moneyball/internal/config"
	"github.com/jeyoh/moneyball/internal/factory"
	"github.com/jeyoh/moneyball/internal/ops"
	"github.com/jeyoh/moneyball/pkg/logging"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the bot until interrupted",
		Long: `Run the bot on the console gateway, reading commands from stdin.

Environment variables:
  BOT_PREFIX       command prefix (default "!")
  AVAILABLE_NAMES  space-separated participant allow-list (required)
  STORAGE_TYPE     memory, sqlite or redis (default sqlite)
  DB_PATH          sqlite database path (default moneyball.db)
  REDIS_URL        redis connection URL
  SESSION_TTL      baseball session expiry for redis storage (default 24h)
  METRICS_ADDR     ops HTTP listen address (default :9090)
  LOG_LEVEL        debug, info, warn or error (default info)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	app, err := factory.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	defer func() {
		if err := app.Storage.Close(); err != nil {
			logger.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opsServer := ops.NewServer(cfg.MetricsAddr, app.Storage, logger)
	opsErr := make(chan error, 1)
	go func() {
		opsErr <- opsServer.Run(ctx)
	}()

	logger.Info("bot starting",
		slog.String("storage", cfg.StorageType),
		slog.String("prefix", cfg.BotPrefix),
		slog.String("names", app.Roster.String()),
	)

	gateway := bot.NewConsole(os.Stdin, os.Stdout, "console")
	if err := gateway.Run(ctx, app.Router.Dispatch); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("gateway stopped: %w", err)
	}

	cancel()
	if err := <-opsErr; err != nil {
		return fmt.Errorf("ops server stopped: %w", err)
	}
	return nil
}
