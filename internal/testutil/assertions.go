package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertLogged fails the test unless every substring appears in the captured
// log output.
func AssertLogged(t *testing.T, logs string, substrings ...string) {
	t.Helper()
	for _, s := range substrings {
		require.True(t, strings.Contains(logs, s), "expected log output to contain %q, got:\n%s", s, logs)
	}
}
