package app

import (
	"context"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"service-gateway/internal/common/logging"
	"service-gateway/internal/config"
)

// shutdownTimeout bounds graceful shutdown after a signal
const shutdownTimeout = 30 * time.Second

// Run is the main entry point for the application
func Run() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logging
	if err := logging.InitGlobalLogger(); err != nil {
		logging.Error("Failed to initialize logger, using defaults", err)
	}
	defer logging.MustSync()

	logging.Info("Starting service gateway",
		logging.Field{"cpus", runtime.NumCPU()},
		logging.Field{"version", "1.0.0"},
	)

	// Load and validate configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logging.Error("Configuration validation failed", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize application
	app, err := New(ctx, cfg)
	if err != nil {
		logging.Error("Failed to initialize application", err)
		return err
	}
	defer app.Cleanup()

	return app.Serve(ctx)
}

// Serve runs the HTTP server and background reloads until ctx ends, then
// shuts everything down gracefully
func (app *App) Serve(ctx context.Context) error {
	srv := app.NewServer()

	g, gctx := errgroup.WithContext(ctx)

	watch, err := app.startRouteReloads(gctx)
	if err != nil {
		logging.Error("Failed to start route reloads", err)
		return err
	}
	if watch != nil {
		g.Go(watch)
	}

	g.Go(func() error {
		app.Logger.Info("Server starting",
			logging.Field{"addr", srv.Addr()},
			logging.Field{"tls", app.Config.UsesTLS()},
		)
		return srv.ListenAndServe()
	})

	g.Go(func() error {
		<-gctx.Done()
		logging.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// Stop taking requests before the worker pool drains
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error("Server forced to shutdown", err)
		}
		if err := app.Shutdown(shutdownCtx); err != nil {
			logging.Warn("Error during app shutdown", logging.Field{"error", err})
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logging.Error("Server exited with error", err)
		return err
	}
	logging.Info("Server exited")
	return nil
}
