package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/iolinks/internal/iolink"
	"github.com/specialistvlad/iolinks/internal/metrics"
	"github.com/specialistvlad/iolinks/internal/topopath"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	discoverer *iolink.Discoverer
	metrics    *metrics.Registry
}

// NewApp is the constructor for the main application. Results go to outW and
// logs to logW. cfg must come from NewConfig; an invalid policy is a
// programmer error and panics.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	policy, err := iolink.ParsePolicy(cfg.OnError)
	if err != nil {
		panic(fmt.Errorf("unvalidated configuration: %w", err))
	}

	discoverer := iolink.NewDiscoverer(
		iolink.WithLayout(topopath.Layout{Root: cfg.Root}),
		iolink.WithPolicy(policy),
	)
	logger.Debug("Discoverer configured.",
		"root", discoverer.Layout().Root, "policy", discoverer.Policy().String(), "node", cfg.Node)

	return &App{
		outW:       outW,
		logger:     logger,
		config:     cfg,
		discoverer: discoverer,
		metrics:    metrics.NewRegistry(),
	}
}

// Metrics returns the application's metrics registry. This is primarily for testing.
func (a *App) Metrics() *metrics.Registry {
	return a.metrics
}
