package app

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/iolinks/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig(DefaultConfig())

	require.NoError(t, err)
	assert.Equal(t, "/sys/class/kfd/kfd/topology/nodes", cfg.Root)
	assert.Equal(t, AllNodes, cfg.Node)
	assert.Nil(t, cfg.Filter)
}

func TestNewConfig_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		errPart string
	}{
		{name: "empty root", mutate: func(c *Config) { c.Root = "" }, errPart: "Root is a required"},
		{name: "bad policy", mutate: func(c *Config) { c.OnError = "retry" }, errPart: `invalid OnError "retry"`},
		{name: "bad format", mutate: func(c *Config) { c.Format = "xml" }, errPart: "invalid Format"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "trace" }, errPart: "invalid LogLevel"},
		{name: "node below -1", mutate: func(c *Config) { c.Node = -2 }, errPart: "invalid Node -2"},
		{name: "node beyond uint32", mutate: func(c *Config) { c.Node = 1 << 32 }, errPart: "invalid Node"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)

			_, err := NewConfig(cfg)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errPart)
		})
	}
}

func TestApplyModel(t *testing.T) {
	root := "/tmp/topo"
	node := int64(1)
	format := "yaml"
	level := "debug"
	model := &config.Model{
		Topology: &config.Topology{Root: &root, Node: &node},
		Output:   &config.Output{Format: &format, Where: hcl.StaticExpr(cty.True, hcl.Range{})},
		Logging:  &config.Logging{Level: &level},
	}
	cfg := DefaultConfig()

	cfg.ApplyModel(model)

	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, node, cfg.Node)
	assert.Equal(t, "abort", cfg.OnError, "unset values keep their defaults")
	assert.Equal(t, format, cfg.Format)
	assert.NotNil(t, cfg.Filter)
	assert.Equal(t, level, cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestApplyModel_Nil(t *testing.T) {
	cfg := DefaultConfig()

	cfg.ApplyModel(nil)

	assert.Equal(t, DefaultConfig(), cfg)
}
