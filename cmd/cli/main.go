package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/specialistvlad/iolinks/internal/app"
	"github.com/specialistvlad/iolinks/internal/cli"
	"github.com/specialistvlad/iolinks/internal/hcl"
	"github.com/specialistvlad/iolinks/internal/iolink"
)

// main is the entrypoint for the iolinks application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if err := run(context.Background(), os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode turns a discovery error into a non-zero process status.
func exitCode(err error) int {
	code := iolink.StatusCode(err)
	if code <= 0 || code > 125 {
		return 1
	}
	return code
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, logW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW, hcl.NewLoader())
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	a, err := newApp(outW, logW, appConfig)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

// newApp turns the panic NewApp raises on configuration that slipped past
// validation into an error.
func newApp(outW, logW io.Writer, cfg *app.Config) (a *app.App, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()
	return app.NewApp(outW, logW, cfg), nil
}
