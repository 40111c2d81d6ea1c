// Package server manages the daemon's background components.
package server

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vklink/flix/internal/events"
)

// Pruner is anything with expiring entries to sweep. The in-memory
// provider list cache implements it; the Redis cache expires on its own.
type Pruner interface {
	Prune() int
}

// Config for the background runner.
type Config struct {
	PruneInterval time.Duration
}

// Runner manages the event drain and cache maintenance goroutines.
type Runner struct {
	bus    *events.Bus
	pruner Pruner
	config Config
	logger *slog.Logger
}

// NewRunner creates a new runner. pruner may be nil.
func NewRunner(bus *events.Bus, pruner Pruner, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PruneInterval == 0 {
		cfg.PruneInterval = 5 * time.Minute
	}
	return &Runner{
		bus:    bus,
		pruner: pruner,
		config: cfg,
		logger: logger,
	}
}

// Run starts the background components.
// It blocks until the context is canceled or an error occurs.
func (r *Runner) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		events.LogAll(ctx, r.bus, r.logger.With("component", "events"))
		return nil
	})

	if r.pruner != nil {
		g.Go(func() error {
			ticker := time.NewTicker(r.config.PruneInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-ticker.C:
					if n := r.pruner.Prune(); n > 0 {
						r.logger.Debug("cache pruned", "entries", n)
					}
				}
			}
		})
	}

	return g.Wait()
}
