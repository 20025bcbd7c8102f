package attach

import (
	"bytes"
	"log/slog"
	"testing"
)

// newTestStore returns a store whose diagnostics are captured in the buffer.
func newTestStore(t *testing.T) (*Store, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(WithLogger(logger)), buf
}
