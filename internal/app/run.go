package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/iolinks/internal/ctxlog"
	"github.com/specialistvlad/iolinks/internal/iolink"
	"github.com/specialistvlad/iolinks/internal/render"
)

// Run discovers links, applies the filter, exports metrics and renders the
// result. The metrics file, when configured, is written on every return
// path; a failure to write it is joined to the returned error.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	mode := "all"
	if a.config.Node != AllNodes {
		mode = "node"
	}

	defer func() {
		if werr := a.writeMetrics(); werr != nil {
			err = errors.Join(err, werr)
		}
	}()

	links, report, err := a.discover(ctx)
	a.metrics.RecordDiscovery(mode, report, err)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}
	if n := len(report.Skipped); n > 0 {
		a.logger.Warn("Some entries could not be read and were skipped.", "count", n)
	}

	links, err = a.config.Filter.Apply(links)
	if err != nil {
		return fmt.Errorf("failed to filter links: %w", err)
	}
	a.logger.Debug("Links selected.", "count", len(links), "where", a.config.Filter.String())

	a.metrics.RecordLinks(links)

	if err := render.Render(a.outW, a.config.Format, links); err != nil {
		return fmt.Errorf("failed to render links: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) discover(ctx context.Context) ([]iolink.Link, *iolink.Report, error) {
	if a.config.Node == AllNodes {
		out := map[iolink.Pair]iolink.Link{}
		report, err := a.discoverer.DiscoverAll(ctx, out)
		return values(out), report, err
	}

	out := map[uint32]iolink.Link{}
	report, err := a.discoverer.DiscoverForNode(ctx, uint32(a.config.Node), out)
	return values(out), report, err
}

func values[K comparable](m map[K]iolink.Link) []iolink.Link {
	links := make([]iolink.Link, 0, len(m))
	for _, l := range m {
		links = append(links, l)
	}
	return links
}

func (a *App) writeMetrics() error {
	if a.config.MetricsFile == "" {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.config.MetricsFile); err != nil {
		a.logger.Error("Failed to write metrics file.", "path", a.config.MetricsFile, "error", err)
		return fmt.Errorf("failed to write metrics file %s: %w", a.config.MetricsFile, err)
	}
	a.logger.Debug("Metrics written.", "path", a.config.MetricsFile)
	return nil
}
