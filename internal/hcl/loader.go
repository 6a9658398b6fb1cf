package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/iolinks/internal/config"
	"github.com/specialistvlad/iolinks/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is the top-level schema of a configuration file.
type fileRoot struct {
	Topology *topologyBlock `hcl:"topology,block"`
	Output   *outputBlock   `hcl:"output,block"`
	Logging  *loggingBlock  `hcl:"logging,block"`
}

type topologyBlock struct {
	Root    *string `hcl:"root,optional"`
	Node    *int64  `hcl:"node,optional"`
	OnError *string `hcl:"on_error,optional"`
}

type outputBlock struct {
	Format      *string        `hcl:"format,optional"`
	Where       hcl.Expression `hcl:"where,optional"`
	MetricsFile *string        `hcl:"metrics_file,optional"`
}

type loggingBlock struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

// Load parses and decodes a single HCL file.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	model := translate(&root)
	logger.Debug("HCL loading complete.",
		"topology", model.Topology != nil, "output", model.Output != nil, "logging", model.Logging != nil)
	return model, nil
}

func translate(root *fileRoot) *config.Model {
	model := &config.Model{}
	if t := root.Topology; t != nil {
		model.Topology = &config.Topology{Root: t.Root, Node: t.Node, OnError: t.OnError}
	}
	if o := root.Output; o != nil {
		out := &config.Output{Format: o.Format, MetricsFile: o.MetricsFile}
		if !isAbsent(o.Where) {
			out.Where = o.Where
		}
		model.Output = out
	}
	if lg := root.Logging; lg != nil {
		model.Logging = &config.Logging{Level: lg.Level, Format: lg.Format}
	}
	return model
}

// isAbsent detects the null placeholder gohcl assigns to an omitted
// expression attribute.
func isAbsent(expr hcl.Expression) bool {
	if expr == nil {
		return true
	}
	if len(expr.Variables()) > 0 {
		return false
	}
	val, diags := expr.Value(nil)
	return !diags.HasErrors() && val.RawEquals(cty.NullVal(cty.DynamicPseudoType))
}
