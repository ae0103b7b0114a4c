package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vk/playtraversal/internal/backdrop"
	"github.com/vk/playtraversal/internal/ctxlog"
	"github.com/vk/playtraversal/internal/journal"
	"github.com/vk/playtraversal/internal/loop"
	"github.com/vk/playtraversal/internal/metrics"
	"github.com/vk/playtraversal/internal/notify"
	"github.com/vk/playtraversal/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	registry  *registry.Registry
	metrics   *prometheus.Registry
	journal   *journal.Store
	notifier  *notify.Notifier
	backdrops *backdrop.Store
}

// NewApp is the constructor for the main application. It returns an App
// with its own isolated logger, registry and metrics. extra observers are
// told about the loop alongside the built-in ones.
func NewApp(ctx context.Context, outW io.Writer, cfg *Config, extra ...loop.Observer) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	policy, err := loop.ParseLatentPolicy(cfg.LatentPolicy)
	if err != nil {
		return nil, err
	}

	a := &App{
		outW:      outW,
		logger:    logger,
		config:    cfg,
		metrics:   prometheus.NewRegistry(),
		backdrops: backdrop.NewStore(cfg.OutputDir),
	}

	observers := loop.Observers{metrics.New(a.metrics)}
	if cfg.JournalPath != "" {
		a.journal, err = journal.Open(ctx, cfg.JournalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open journal: %w", err)
		}
		observers = append(observers, a.journal)
		logger.Debug("Journal opened.", "path", cfg.JournalPath)
	}
	if cfg.NotifyURL != "" {
		a.notifier, err = notify.Dial(ctx, notify.Options{URL: cfg.NotifyURL})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect notifier: %w", err)
		}
		observers = append(observers, a.notifier)
	}
	observers = append(observers, extra...)

	a.registry = registry.New(a.modules(policy, observers)...)
	logger.Debug("All node modules registered.", "classes", len(a.registry.Classes()), "latent_policy", policy.String())
	return a, nil
}

// Context returns ctx carrying the app's logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Journal returns the run journal, or nil when none is configured.
func (a *App) Journal() *journal.Store {
	return a.journal
}

// Close releases the journal and the notifier connection.
func (a *App) Close() error {
	if a.notifier != nil {
		a.notifier.Close()
	}
	if a.journal != nil {
		return a.journal.Close()
	}
	return nil
}
