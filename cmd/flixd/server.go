package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	v1 "github.com/vklink/flix/internal/api/v1"
	"github.com/vklink/flix/internal/catalog"
	"github.com/vklink/flix/internal/catalog/local"
	"github.com/vklink/flix/internal/catalog/xtream"
	"github.com/vklink/flix/internal/config"
	"github.com/vklink/flix/internal/events"
	"github.com/vklink/flix/internal/metrics"
	"github.com/vklink/flix/internal/migrations"
	"github.com/vklink/flix/internal/progress"
	"github.com/vklink/flix/internal/relay"
	"github.com/vklink/flix/internal/server"
	"github.com/vklink/flix/internal/session"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 200 { // Only capture first WriteHeader call
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// buildSource wires the configured catalog adapter. The returned pruner
// is non-nil only when the in-memory provider cache is in use.
func buildSource(cfg *config.Config, logger *slog.Logger) (catalog.Source, server.Pruner, func(), error) {
	noop := func() {}
	switch cfg.Playback.Source {
	case config.SourceLocal:
		return local.NewSource(local.NewClient(cfg.Catalog.Local.URL)), nil, noop, nil

	case config.SourceXtream:
		client := xtream.NewClient(
			cfg.Catalog.Xtream.URL,
			cfg.Catalog.Xtream.Username,
			cfg.Catalog.Xtream.Password,
		)
		if cfg.Cache.RedisURL != "" {
			rc, err := xtream.NewRedisCache(cfg.Cache.RedisURL, logger.With("component", "cache"))
			if err != nil {
				return nil, nil, noop, fmt.Errorf("redis cache: %w", err)
			}
			src := xtream.NewSource(client,
				xtream.WithListCache(rc),
				xtream.WithListTTL(cfg.Cache.TTL),
			)
			return src, nil, func() { _ = rc.Close() }, nil
		}
		mc := xtream.NewMemoryCache()
		src := xtream.NewSource(client,
			xtream.WithListCache(mc),
			xtream.WithListTTL(cfg.Cache.TTL),
		)
		return src, mc, noop, nil

	default:
		return nil, nil, noop, fmt.Errorf("unknown playback source %q", cfg.Playback.Source)
	}
}

func runServer(configPath string) error {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Create logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))

	// Ensure database directory exists
	dbDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	// Open database
	db, err := sql.Open("sqlite", cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	// Run migrations
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// Catalog source
	source, pruner, closeSource, err := buildSource(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	// Core services
	bus := events.NewBus(logger.With("component", "bus"))
	defer func() { _ = bus.Close() }()

	progressStore := progress.NewStore(db)
	sessions := session.NewController(source, progressStore, bus, session.Config{
		RelayURL:           cfg.Playback.RelayURL,
		CheckpointInterval: cfg.Playback.CheckpointInterval,
	}, logger.With("component", "session"))

	// Background components
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := server.NewRunner(bus, pruner, server.Config{}, logger.With("component", "runner"))
	runnerDone := make(chan error, 1)
	go func() { runnerDone <- runner.Run(ctx) }()

	// === HTTP Setup ===
	mux := http.NewServeMux()

	apiV1 := v1.New(source, progressStore, sessions, v1.Config{
		Version:    version,
		SourceName: cfg.Playback.Source,
		PageSize:   cfg.Playback.PageSize,
	})
	apiV1.RegisterRoutes(mux)

	mux.Handle("GET /relay", relay.NewHandler(logger.With("component", "relay")))
	mux.Handle("GET /metrics", metrics.Handler())

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting",
		"addr", addr,
		"database", cfg.Database.Path,
		"source", cfg.Playback.Source,
		"relay", cfg.Playback.RelayURL != "",
		"redis", cfg.Cache.RedisURL != "",
		"log_level", cfg.Server.LogLevel,
	)

	srv := &http.Server{Addr: addr, Handler: logRequests(mux, logger)}

	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig.String())

	// Stop background components
	cancel()
	if err := <-runnerDone; err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("runner error", "error", err)
	}

	// Graceful HTTP shutdown with 30s timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
