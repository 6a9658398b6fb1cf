package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/iolinks/internal/app"
	"github.com/specialistvlad/iolinks/internal/config"
	"github.com/specialistvlad/iolinks/internal/ctxlog"
	"github.com/specialistvlad/iolinks/internal/linkfilter"
	"github.com/specialistvlad/iolinks/internal/render"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Parse processes command-line arguments. Values come from the built-in
// defaults, then the configuration file given with --config, then flags set
// explicitly on the command line. It returns a validated Config, a boolean
// indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer, loader config.Loader) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("iolinks", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
iolinks - Discover the IO links between compute and accelerator nodes.

Usage:
  iolinks [options] [TOPOLOGY_ROOT]

Arguments:
  TOPOLOGY_ROOT
    Directory holding one numbered subdirectory per node.
    Defaults to /sys/class/kfd/kfd/topology/nodes.

Options:
`)
		flagSet.PrintDefaults()
	}

	defaults := app.DefaultConfig()
	configFlag := flagSet.String("config", "", "Path to an HCL configuration file.")
	rootFlag := flagSet.String("root", defaults.Root, "Topology root directory.")
	nodeFlag := flagSet.Int64("node", defaults.Node, "Only read links of this node. -1 reads every node.")
	onErrorFlag := flagSet.String("on-error", defaults.OnError, "What to do with unreadable links. Options: 'abort' or 'skip'.")
	formatFlag := flagSet.String("format", defaults.Format, "Output format. Options: "+strings.Join(render.Formats, ", ")+".")
	whereFlag := flagSet.String("where", "", "HCL expression selecting links, e.g. 'type == 11 && weight < 40'.")
	metricsFlag := flagSet.String("metrics-file", "", "Write Prometheus metrics in textfile format to this path.")
	logFormatFlag := flagSet.String("log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, usageError("%s", err.Error())
	}
	if flagSet.NArg() > 1 {
		return nil, false, usageError("expected at most one TOPOLOGY_ROOT argument, got %d", flagSet.NArg())
	}
	slog.Debug("Arguments parsed successfully.")

	cfg := defaults
	if *configFlag != "" {
		ctx := ctxlog.WithLogger(context.Background(), slog.Default())
		model, err := loader.Load(ctx, *configFlag)
		if err != nil {
			return nil, false, usageError("%s", err.Error())
		}
		cfg.ApplyModel(model)
		slog.Debug("Configuration file applied.", "path", *configFlag)
	}

	if flagSet.NArg() == 1 {
		cfg.Root = flagSet.Arg(0)
	}

	var filterErr error
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "root":
			cfg.Root = *rootFlag
		case "node":
			cfg.Node = *nodeFlag
		case "on-error":
			cfg.OnError = strings.ToLower(*onErrorFlag)
		case "format":
			cfg.Format = strings.ToLower(*formatFlag)
		case "where":
			cfg.Filter, filterErr = linkfilter.Compile(*whereFlag)
		case "metrics-file":
			cfg.MetricsFile = *metricsFlag
		case "log-format":
			cfg.LogFormat = strings.ToLower(*logFormatFlag)
		case "log-level":
			cfg.LogLevel = strings.ToLower(*logLevelFlag)
		}
	})
	if filterErr != nil {
		return nil, false, usageError("invalid --where: %s", filterErr.Error())
	}

	validated, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, usageError("%s", err.Error())
	}

	slog.Debug("CLI parser finished successfully.", "root", validated.Root, "node", validated.Node)
	return validated, false, nil
}
