package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/michaelblawrence/5-or-die/internal/adapters/http/api"
	"github.com/michaelblawrence/5-or-die/internal/adapters/storage"
	app "github.com/michaelblawrence/5-or-die/internal/app"
	"github.com/michaelblawrence/5-or-die/internal/config"
	"github.com/michaelblawrence/5-or-die/pkg/logger"
	"github.com/michaelblawrence/5-or-die/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	trackedEventsInterval = 30 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			logger.Error(err)
		}
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Pick the event storage backend from configuration. The registry is
	// the single handle the rest of the process reads events through.
	registry := &storage.Registry{}
	if err := registry.Init(ctx, storage.Config{
		Type:           resolveBackendType(cfg),
		BucketURL:      cfg.BucketURL,
		DataFile:       cfg.DataFile,
		RequestTimeout: time.Duration(cfg.RequestTimeoutMS) * time.Millisecond,
	}); err != nil {
		os.Stderr.WriteString("failed to initialize storage: " + err.Error() + "\n")
		return
	}
	store, err := registry.Get()
	if err != nil {
		os.Stderr.WriteString("failed to get storage provider: " + err.Error() + "\n")
		return
	}
	loggerInstance.Info(ctx, "storage backend ready", logger.String("backend", resolveBackendType(cfg)))

	// Create the event service with configuration options
	svc := app.New(store, app.WithLogger(loggerInstance))

	// Start the tracked-events gauge updater
	go startTrackedEventsUpdater(ctx, store)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// resolveBackendType maps the configuration selector onto a storage
// backend tag.
func resolveBackendType(cfg *config.Config) string {
	switch cfg.ResolvedStorageType() {
	case config.StorageBucket:
		return storage.TypeBucket
	default:
		return storage.TypeFile
	}
}

// startTrackedEventsUpdater keeps the tracked-events gauge current by
// periodically counting stored events. Backends that refuse listing are
// left to update the gauge from their own write path.
func startTrackedEventsUpdater(ctx context.Context, store storage.Provider) {
	ticker := time.NewTicker(trackedEventsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			events, err := store.ListEvents(ctx)
			if err != nil {
				if errors.Is(err, storage.ErrListUnsupported) {
					return
				}
				continue
			}
			metrics.SetTrackedEvents(len(events))
		}
	}
}
