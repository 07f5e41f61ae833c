package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Black-And-White-Club/score-bot/app"
	"github.com/Black-And-White-Club/score-bot/app/observability"
	"github.com/Black-And-White-Club/score-bot/config"
	"github.com/joho/godotenv"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	obs, err := observability.New(cfg.Observability)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	logger := obs.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(ctx, cfg, obs)
	if err != nil {
		logger.Error("Failed to initialize app", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("score-bot starting",
		slog.String("storage", cfg.Storage.Driver),
		slog.Bool("nats", cfg.NATS.URL != ""),
	)

	runErr := application.Run(ctx)

	if err := application.Close(); err != nil {
		logger.Error("Error during shutdown", slog.Any("error", err))
	}
	if runErr != nil {
		logger.Error("score-bot stopped with error", slog.Any("error", runErr))
		os.Exit(1)
	}
	logger.Info("score-bot shut down gracefully")
}
