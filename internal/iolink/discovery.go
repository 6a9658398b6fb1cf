package iolink

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/iolinks/internal/ctxlog"
	"github.com/specialistvlad/iolinks/internal/fsutil"
	"github.com/specialistvlad/iolinks/internal/topopath"
)

// Discoverer walks a topology tree. It holds no mutable state, so one
// Discoverer may serve concurrent calls as long as each call gets its own
// output map.
type Discoverer struct {
	layout topopath.Layout
	policy Policy
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithLayout points the discoverer at a topology tree other than the kernel's.
func WithLayout(layout topopath.Layout) Option {
	return func(d *Discoverer) { d.layout = layout }
}

// WithPolicy sets the per-entry failure policy.
func WithPolicy(policy Policy) Option {
	return func(d *Discoverer) { d.policy = policy }
}

// NewDiscoverer returns a discoverer for the default kernel layout with
// PolicyAbort, adjusted by opts.
func NewDiscoverer(opts ...Option) *Discoverer {
	d := &Discoverer{layout: topopath.Default(), policy: PolicyAbort}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Layout returns the tree the discoverer reads.
func (d *Discoverer) Layout() topopath.Layout { return d.layout }

// Policy returns the per-entry failure policy.
func (d *Discoverer) Policy() Policy { return d.policy }

// DiscoverAll reads every link of every node into out, keyed by the
// (node_from, node_to) pair each link reports. out must be non-nil and
// empty. The returned Report is never nil. On error the contents of out are
// unspecified.
func (d *Discoverer) DiscoverAll(ctx context.Context, out map[Pair]Link) (*Report, error) {
	report := &Report{}
	if err := checkOutput(len(out), out == nil); err != nil {
		return report, err
	}

	logger := ctxlog.FromContext(ctx)
	start := time.Now()
	defer func() { report.Duration = time.Since(start) }()

	nodes, err := fsutil.NumericEntries(d.layout.Root)
	if err != nil {
		return report, fmt.Errorf("failed to enumerate nodes under %s: %w", d.layout.Root, err)
	}
	logger.Debug("Topology nodes enumerated.", "root", d.layout.Root, "count", len(nodes))

	for _, node := range nodes {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Nodes++

		err := d.walkNode(ctx, node, report, true, func(link Link) {
			key := link.Pair()
			if prev, exists := out[key]; exists {
				report.Duplicates++
				logger.Warn("Duplicate link pair, keeping the later one.",
					"pair", key.String(), "previous", prev.String(), "current", link.String())
			}
			out[key] = link
		})
		if err != nil {
			return report, err
		}
	}

	logger.Info("IO link discovery finished.",
		"nodes", report.Nodes, "links", report.Links, "skipped", len(report.Skipped))
	return report, nil
}

// DiscoverForNode reads the links stored under one node's io_links
// directory into out, keyed by node_to. Links of other nodes are never
// visited, even when they point at the same destination. A node whose link
// list cannot be enumerated is an error regardless of policy.
func (d *Discoverer) DiscoverForNode(ctx context.Context, node uint32, out map[uint32]Link) (*Report, error) {
	report := &Report{}
	if err := checkOutput(len(out), out == nil); err != nil {
		return report, err
	}

	logger := ctxlog.FromContext(ctx)
	start := time.Now()
	defer func() { report.Duration = time.Since(start) }()

	report.Nodes = 1
	err := d.walkNode(ctx, node, report, false, func(link Link) {
		if prev, exists := out[link.NodeTo()]; exists {
			report.Duplicates++
			logger.Warn("Duplicate destination, keeping the later link.",
				"node", node, "node_to", link.NodeTo(), "previous", prev.String(), "current", link.String())
		}
		out[link.NodeTo()] = link
	})
	if err != nil {
		return report, err
	}

	logger.Info("IO link discovery for node finished.",
		"node", node, "links", report.Links, "skipped", len(report.Skipped))
	return report, nil
}

// walkNode initializes every link of node and hands each one to insert.
// skipList controls whether PolicySkip also applies to a node whose link
// list cannot be read.
func (d *Discoverer) walkNode(ctx context.Context, node uint32, report *Report, skipList bool, insert func(Link)) error {
	ctx = ctxlog.With(ctx, "node", node)
	logger := ctxlog.FromContext(ctx)

	dir := d.layout.LinkListPath(node)
	indices, err := fsutil.NumericEntries(dir)
	if err != nil {
		err = fmt.Errorf("node %d: failed to enumerate links under %s: %w", node, dir, err)
		if skipList && d.policy == PolicySkip {
			logger.Warn("Skipping node.", "error", err)
			report.skipNode(node, err)
			return nil
		}
		return err
	}
	logger.Debug("Node links enumerated.", "count", len(indices))

	for _, index := range indices {
		if err := ctx.Err(); err != nil {
			return err
		}

		link := New(d.layout, node, index)
		if err := link.Initialize(ctx); err != nil {
			if d.policy == PolicySkip {
				logger.Warn("Skipping link.", "link", index, "error", err)
				report.skipLink(node, index, err)
				continue
			}
			return err
		}

		insert(*link)
		report.Links++
	}
	return nil
}

func checkOutput(size int, isNil bool) error {
	if isNil {
		return fmt.Errorf("%w: output map is nil", ErrInvalidArgument)
	}
	if size != 0 {
		return fmt.Errorf("%w: output map must be empty, has %d entries", ErrInvalidArgument, size)
	}
	return nil
}

// DiscoverIOLinks runs DiscoverAll against the kernel topology with the
// default policy.
func DiscoverIOLinks(ctx context.Context, out map[Pair]Link) error {
	_, err := NewDiscoverer().DiscoverAll(ctx, out)
	return err
}

// DiscoverIOLinksPerNode runs DiscoverForNode against the kernel topology
// with the default policy.
func DiscoverIOLinksPerNode(ctx context.Context, node uint32, out map[uint32]Link) error {
	_, err := NewDiscoverer().DiscoverForNode(ctx, node, out)
	return err
}
