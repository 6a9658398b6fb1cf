package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/specialistvlad/iolinks/internal/iolink"
	"github.com/specialistvlad/iolinks/internal/linkfilter"
	"github.com/specialistvlad/iolinks/internal/render"
	"github.com/specialistvlad/iolinks/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupAppTest creates an app against tree with debug logging captured.
func setupAppTest(t *testing.T, tree *testutil.Tree, mutate func(*Config)) (*App, *bytes.Buffer, *testutil.SafeBuffer) {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Root = tree.Root()
	cfg.Format = "json"
	cfg.LogLevel = "debug"
	if mutate != nil {
		mutate(&cfg)
	}
	validated, err := NewConfig(cfg)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}
	t.Cleanup(func() {
		if os.Getenv("IOLINKS_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return NewApp(out, logs, validated), out, logs
}

func sampleTree(t *testing.T) *testutil.Tree {
	t.Helper()
	return testutil.NewTree(t).
		AddLink(0, 0, 11, 0, 1, 15).
		AddLink(0, 1, 2, 0, 2, 20).
		AddLink(1, 0, 11, 1, 0, 15).
		AddLink(1, 1, 2, 1, 2, 20)
}

func decodeViews(t *testing.T, data []byte) []render.View {
	t.Helper()
	var views []render.View
	require.NoError(t, json.Unmarshal(data, &views))
	return views
}

func TestRun_AllNodes(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	a, out, logs := setupAppTest(t, sampleTree(t), nil)

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	views := decodeViews(t, out.Bytes())
	require.Len(t, views, 4)
	assert.Equal(t, uint32(0), views[0].From)
	assert.Equal(t, uint32(1), views[0].To)
	testutil.AssertLogged(t, logs.String(), "IO link discovery finished.", "links=4")
	assert.Equal(t, 1.0, promtestutil.ToFloat64(a.Metrics().DiscoveryRunsTotal.WithLabelValues("all", "success")))
}

func TestRun_PerNodeWithFilter(t *testing.T) {
	t.Parallel()

	filter, err := linkfilter.Compile(`type_name == "pcie"`)
	require.NoError(t, err)
	a, out, _ := setupAppTest(t, sampleTree(t), func(c *Config) {
		c.Node = 1
		c.Filter = filter
	})

	require.NoError(t, a.Run(context.Background()))

	views := decodeViews(t, out.Bytes())
	require.Len(t, views, 1)
	assert.Equal(t, uint32(1), views[0].From)
	assert.Equal(t, uint32(2), views[0].To)
	assert.Equal(t, "pcie", views[0].TypeName)
}

func TestRun_AbortOnBrokenLink(t *testing.T) {
	t.Parallel()

	tree := sampleTree(t).AddRaw(1, 2, "type 2\n")
	metricsFile := filepath.Join(t.TempDir(), "iolinks.prom")
	a, out, _ := setupAppTest(t, tree, func(c *Config) { c.MetricsFile = metricsFile })

	err := a.Run(context.Background())

	require.ErrorIs(t, err, iolink.ErrMissingProperty)
	assert.Empty(t, out.String())
	data, readErr := os.ReadFile(metricsFile)
	require.NoError(t, readErr, "metrics are written even when discovery fails")
	assert.Contains(t, string(data), `iolinks_discovery_runs_total{mode="all",result="error"} 1`)
}

func TestRun_SkipBrokenLink(t *testing.T) {
	t.Parallel()

	tree := sampleTree(t).AddRaw(1, 2, "type 2\n")
	metricsFile := filepath.Join(t.TempDir(), "iolinks.prom")
	a, out, logs := setupAppTest(t, tree, func(c *Config) {
		c.OnError = "skip"
		c.MetricsFile = metricsFile
	})

	require.NoError(t, a.Run(context.Background()))

	assert.Len(t, decodeViews(t, out.Bytes()), 4)
	testutil.AssertLogged(t, logs.String(), "Skipping link.", "Some entries could not be read and were skipped.")
	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `iolinks_entries_skipped_total{reason="missing_property"} 1`)
	assert.Contains(t, string(data), `iolinks_link_weight{from="0",to="1",type="xgmi"} 15`)
}

func TestRun_FilterError(t *testing.T) {
	t.Parallel()

	filter, err := linkfilter.Compile("min_latency < 5")
	require.NoError(t, err)
	a, _, _ := setupAppTest(t, sampleTree(t), func(c *Config) { c.Filter = filter })

	err = a.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to filter links")
}

func TestNewLogger_Levels(t *testing.T) {
	buf := &bytes.Buffer{}

	logger := newLogger("warn", "json", buf)
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}

func TestRun_MetricsWrittenWhenFilterFails(t *testing.T) {
	t.Parallel()

	filter, err := linkfilter.Compile("min_latency < 5")
	require.NoError(t, err)
	metricsFile := filepath.Join(t.TempDir(), "iolinks.prom")
	a, _, _ := setupAppTest(t, sampleTree(t), func(c *Config) {
		c.Filter = filter
		c.MetricsFile = metricsFile
	})

	err = a.Run(context.Background())

	require.Error(t, err)
	data, readErr := os.ReadFile(metricsFile)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), `iolinks_discovery_runs_total{mode="all",result="success"} 1`)
}

func TestRun_MetricsWriteFailureIsReported(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tree := sampleTree(t).AddRaw(1, 2, "type 2\n")
	metricsFile := filepath.Join(t.TempDir(), "missing-dir", "iolinks.prom")
	a, _, logs := setupAppTest(t, tree, func(c *Config) { c.MetricsFile = metricsFile })

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.ErrorIs(t, err, iolink.ErrMissingProperty, "discovery error is kept")
	assert.Contains(t, err.Error(), "failed to write metrics file")
	testutil.AssertLogged(t, logs.String(), "Failed to write metrics file.")
}
