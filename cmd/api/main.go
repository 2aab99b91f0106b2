package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apphttp "pinmap/internal/http"
	"pinmap/internal/http/router"
	"pinmap/internal/locations"
	"pinmap/internal/locations/repository"
	"pinmap/internal/maps"
	"pinmap/platform/config"
	"pinmap/platform/logger"
	"pinmap/platform/validator"

	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "driver", cfg.DatabaseDriver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var backend *repository.Backend
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		b, err := repository.Open(ctx, cfg)
		if err != nil {
			return err
		}
		backend = b
		return nil
	}); err != nil {
		log.Error("failed to open database", "error", err)
		panic("failed to open database: " + err.Error())
	}
	defer backend.Close()
	log.Info("database ready, migrations complete")

	provider, err := maps.NewProvider(cfg, log)
	if err != nil {
		panic("failed to configure geocoder: " + err.Error())
	}
	provider, closeCache, err := maps.WithCache(ctx, provider, cfg, log)
	if err != nil {
		log.Warn("geocode cache unavailable, continuing without it", "error", err)
		provider, _ = maps.NewProvider(cfg, log)
		closeCache = func() {}
	}
	defer closeCache()
	log.Info("geocoder configured", "provider", provider.Name())

	if !cfg.IsWriteAuthEnabled() {
		log.Warn("JWT_ACCESS_SECRET not configured; location writes are unauthenticated")
	}

	// ========================================================================
	// Domain Modules
	// ========================================================================

	val := validator.New()
	locationsModule := locations.NewModule(backend, val, log)
	mapsModule := maps.NewModule(provider, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: backend,
		Modules: []apphttp.Module{
			locationsModule,
			mapsModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
	log.Info("server stopped")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return fmt.Errorf("%s: %w", name, lastErr)
}
