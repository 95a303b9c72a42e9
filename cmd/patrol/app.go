package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dcpatrol/patrol/internal/adapters/factory"
	httpAdapter "github.com/dcpatrol/patrol/internal/adapters/http"
	"github.com/dcpatrol/patrol/internal/auth"
	"github.com/dcpatrol/patrol/internal/config"
	"github.com/dcpatrol/patrol/internal/domain/ports"
	"github.com/dcpatrol/patrol/internal/domain/service"
	"github.com/dcpatrol/patrol/internal/media"
	"github.com/dcpatrol/patrol/internal/observability"
	"github.com/dcpatrol/patrol/internal/scheduler"
)

// Application holds the application state
type Application struct {
	cfg        *config.Config
	logger     observability.Logger
	store      ports.DocumentStore
	engine     *service.Engine
	scheduler  *scheduler.Scheduler
	httpServer *httpAdapter.Server
}

// newApplication wires the document store, the inspection engine, the
// auth provider and the HTTP surface together
func newApplication(ctx context.Context, cfg *config.Config, logger observability.Logger) (*Application, error) {
	store, err := factory.NewDocumentStore(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize document store: %w", err)
	}
	logger.Infow("✓ Document store initialized", "backend", cfg.Store.Backend)

	engineOpts := []service.Option{
		service.WithResetHour(cfg.Inspection.ResetHour),
		service.WithRecentLimit(cfg.Inspection.RecentLimit),
	}
	if cfg.Inspection.CatalogPath != "" {
		catalog, err := service.LoadCatalogFile(cfg.Inspection.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load room catalog: %w", err)
		}
		engineOpts = append(engineOpts, service.WithCatalog(catalog))
		logger.Infow("✓ Room catalog loaded", "path", cfg.Inspection.CatalogPath, "rooms", len(catalog))
	}

	engine, err := service.NewEngine(ctx, store, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize inspection engine: %w", err)
	}
	logger.Info("✓ Inspection engine initialized")

	// Catch up on a reset the process slept through
	if applied, err := engine.CheckDailyReset(ctx); err != nil {
		logger.Warnw("Startup reset check failed", "error", err)
	} else if applied {
		logger.Info("✓ Daily reset applied at startup")
	}

	authProvider, err := auth.NewProvider(ctx, store, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth provider: %w", err)
	}
	logger.Info("✓ Auth provider initialized")

	mediaStore, err := media.NewFileStore(cfg.Inspection.MediaDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize media store: %w", err)
	}

	router := httpAdapter.SetupRouter(engine, authProvider, mediaStore, httpAdapter.RouterConfig{
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
	})

	httpServer := httpAdapter.NewServer(httpAdapter.ServerConfig{
		ListenAddr:   fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		EnableH2C:    true, // Enable HTTP/2 Cleartext for testing
	}, router)

	return &Application{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		engine:     engine,
		scheduler:  scheduler.New(engine, cfg.Scheduler.ResetCheckInterval, cfg.Scheduler.RefreshInterval),
		httpServer: httpServer,
	}, nil
}

// start launches the background scheduler and the HTTP server
func (app *Application) start(ctx context.Context) error {
	app.scheduler.Start(ctx)
	app.logger.Info("✓ Scheduler started")

	if err := app.httpServer.Start(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	app.logger.Infow("✓ HTTP/2 server listening", "address", app.httpServer.GetAddr())
	return nil
}

// shutdown performs graceful shutdown of all services
func (app *Application) shutdown() {
	app.logger.Info("Shutting down...")

	app.scheduler.Stop()

	if err := app.httpServer.Stop(); err != nil {
		app.logger.Errorw("HTTP server shutdown error", "error", err)
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.store.Close(closeCtx); err != nil {
		app.logger.Warnw("Document store close error", "error", err)
	}

	app.logger.Info("Stopped gracefully")
}
