// Package metrics exposes discovery results as Prometheus metrics. The
// registry is private to the process run and is meant to be dumped in the
// node-exporter textfile format after a pass.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/specialistvlad/iolinks/internal/iolink"
)

// Registry holds all metrics for the application
type Registry struct {
	DiscoveryRunsTotal   *prometheus.CounterVec
	LinksDiscoveredTotal *prometheus.CounterVec
	EntriesSkippedTotal  *prometheus.CounterVec
	DiscoveryDuration    *prometheus.HistogramVec
	LinkWeight           *prometheus.GaugeVec

	registry *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initDiscoveryMetrics()
	return r
}

func (r *Registry) initDiscoveryMetrics() {
	r.DiscoveryRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "iolinks_discovery_runs_total",
			Help: "Total number of discovery passes",
		},
		[]string{"mode", "result"}, // all|node, success|error
	)

	r.LinksDiscoveredTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "iolinks_links_discovered_total",
			Help: "Total number of links successfully read",
		},
		[]string{"mode"},
	)

	r.EntriesSkippedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "iolinks_entries_skipped_total",
			Help: "Nodes or links left out of a pass under the skip policy",
		},
		[]string{"reason"},
	)

	r.DiscoveryDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "iolinks_discovery_duration_seconds",
			Help:    "Duration of a discovery pass in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
		[]string{"mode"},
	)

	r.LinkWeight = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "iolinks_link_weight",
			Help: "Weight reported by each discovered link",
		},
		[]string{"from", "to", "type"},
	)
}

// RecordDiscovery records the outcome of one pass. report may be nil.
func (r *Registry) RecordDiscovery(mode string, report *iolink.Report, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	r.DiscoveryRunsTotal.WithLabelValues(mode, result).Inc()

	if report == nil {
		return
	}
	r.DiscoveryDuration.WithLabelValues(mode).Observe(report.Duration.Seconds())
	if err == nil {
		r.LinksDiscoveredTotal.WithLabelValues(mode).Add(float64(report.Links))
	}
	for _, s := range report.Skipped {
		r.EntriesSkippedTotal.WithLabelValues(s.Reason).Inc()
	}
}

// RecordLinks publishes the weight of every link. Links that were never
// initialized carry no weight and are left out.
func (r *Registry) RecordLinks(links []iolink.Link) {
	for _, l := range links {
		pair, err := l.Endpoints()
		if err != nil {
			continue
		}
		r.LinkWeight.WithLabelValues(
			strconv.FormatUint(uint64(pair.From), 10),
			strconv.FormatUint(uint64(pair.To), 10),
			l.Type().String(),
		).Set(float64(l.Weight()))
	}
}

// WriteTextfile dumps all metrics to path in the text exposition format,
// replacing the file atomically.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
