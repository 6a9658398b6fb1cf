package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"syscall"
	"testing"

	"github.com/specialistvlad/iolinks/internal/app"
	"github.com/specialistvlad/iolinks/internal/fsutil"
	"github.com/specialistvlad/iolinks/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestRun_DiscoversTree(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tree := testutil.NewTree(t).
		AddLink(0, 0, 11, 0, 1, 15).
		AddLink(1, 0, 11, 1, 0, 15).
		AddDir(".cache")
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, logs, []string{"--format", "text", tree.Root()})

	// --- Assert ---
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3, "header plus one row per link")
	require.Contains(t, logs.String(), "IO link discovery finished.")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}

	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_MissingRootExitCode(t *testing.T) {
	t.Parallel()

	root := t.TempDir() + "/nodes"

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{root})

	require.Error(t, err)
	require.Equal(t, int(syscall.ENOENT), exitCode(err))
}

func TestExitCode(t *testing.T) {
	require.Equal(t, int(syscall.EIO), exitCode(errors.New("boom")))
	require.Equal(t, 1, exitCode(&fsutil.CloseError{Path: "/x", Err: syscall.EBADF}))
}

func TestNewApp_RecoversStartupPanic(t *testing.T) {
	cfg := app.DefaultConfig()
	cfg.OnError = "retry"

	a, err := newApp(&bytes.Buffer{}, &bytes.Buffer{}, &cfg)

	require.Nil(t, a)
	require.Error(t, err)
	require.Contains(t, err.Error(), "application startup panicked")
	require.Contains(t, err.Error(), `unknown error policy "retry"`)
}
