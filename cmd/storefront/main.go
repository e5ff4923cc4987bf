package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mhasan0505/sanslibyzebin/internal/app"
	"github.com/mhasan0505/sanslibyzebin/internal/config"
	"github.com/mhasan0505/sanslibyzebin/pkg/logger"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("storefront exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.ServiceName, cfg.LogLevel)
	slog.SetDefault(log)
	log.Info("starting storefront",
		slog.String("version", version),
		slog.String("environment", cfg.Environment),
		slog.String("addr", cfg.Addr()),
		slog.String("store_backend", cfg.StoreBackend),
		slog.String("locale", cfg.Locale),
		slog.Bool("kafka_enabled", cfg.KafkaEnabled),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storefront, err := app.NewApp(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("initialize storefront: %w", err)
	}
	if err := storefront.Run(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	log.Info("storefront stopped")
	return nil
}
