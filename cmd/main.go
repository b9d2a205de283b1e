package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/exorank/internal/adapters/http/api"
	"github.com/okian/exorank/internal/adapters/repository"
	service "github.com/okian/exorank/internal/app"
	"github.com/okian/exorank/internal/artifact"
	"github.com/okian/exorank/internal/auth"
	"github.com/okian/exorank/internal/config"
	"github.com/okian/exorank/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout          = 10 * time.Second
	writeTimeout         = 10 * time.Second
	idleTimeout          = 60 * time.Second
	readHeaderTimeout    = 5 * time.Second
	shutdownTimeout      = 30 * time.Second
	statsRefreshInterval = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

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
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Err(err))
		_ = logger.SetLevelString("info")
	}

	// The bundle is the source of truth for the feature schema; a malformed
	// bundle is fatal before any request is served.
	bundle, err := artifact.Load(cfg.BundlePath)
	if err != nil {
		log.Error(ctx, "failed to load artifact bundle", logger.Err(err))
		return
	}
	log.Info(ctx, "artifact bundle loaded",
		logger.String("version", bundle.Version),
		logger.String("model", bundle.Model.Name()),
		logger.Int("features", bundle.Schema.Len()))

	var store repository.Store
	if cfg.DBPath != "" {
		store, err = repository.NewSQLiteStore(cfg.DBPath, bundle.Schema.Features())
		if err != nil {
			log.Error(ctx, "failed to open store", logger.Err(err))
			return
		}
		log.Info(ctx, "using sqlite store", logger.String("path", cfg.DBPath))
	} else {
		store = repository.NewMemoryStore()
		log.Info(ctx, "using in-memory store")
	}

	svc, err := service.New(bundle,
		service.WithStore(store),
		service.WithLogger(log.Named("service")),
		service.WithPrecision(cfg.Precision),
		service.WithDefaultTopK(cfg.DefaultK),
	)
	if err != nil {
		log.Error(ctx, "failed to build service", logger.Err(err))
		return
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Error(ctx, "failed to close service", logger.Err(err))
		}
	}()

	// Keep the bodies-tracked gauge fresh even when traffic is idle.
	go startStatsRefresher(ctx, svc)

	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, auth.NewStaticToken(cfg.AuthToken), svc,
		api.WithRankLimits(cfg.DefaultK, cfg.MaxK))
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Err(err))
	}

	log.Info(ctx, "server stopped")
}

// startStatsRefresher periodically recomputes service statistics so the
// Prometheus gauges track the store between requests.
func startStatsRefresher(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(statsRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			svc.Stats(ctx)
		}
	}
}
