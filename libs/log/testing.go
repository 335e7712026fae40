package log

import (
	"testing"

	"github.com/rs/zerolog"
)

// TestingLogger returns a Logger which routes all output through the given
// testing context, so log lines show up attached to the test that emitted
// them and only when the test fails or -v is set.
func TestingLogger(t testing.TB) Logger {
	t.Helper()

	return defaultLogger{
		Logger: zerolog.New(zerolog.NewTestWriter(t)),
	}
}
