package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dcpatrol/patrol/internal/config"
	"github.com/dcpatrol/patrol/internal/metrics"
	"github.com/dcpatrol/patrol/internal/observability"
)

func main() {
	// .env is optional; real deployments configure via file or PATROL_* vars
	_ = godotenv.Load()

	logger := observability.New("patrol-main", "info")

	configPath := os.Getenv("PATROL_CONFIG")
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalw("Failed to load configuration", "error", err)
	}

	observability.SetLevel(cfg.Logging.Level)
	metrics.InitMetrics()

	ctx := context.Background()

	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to initialize application", "error", err)
	}

	if err := app.start(ctx); err != nil {
		logger.Fatalw("Failed to start application", "error", err)
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.shutdown()
}
