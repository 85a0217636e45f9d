package testsupport

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"plexdate/internal/logging"
)

// LogBuffer collects console-formatted log output for assertions.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// NewLogger returns an info-level console logger writing into a LogBuffer.
func NewLogger(t testing.TB) (*slog.Logger, *LogBuffer) {
	t.Helper()
	buf := &LogBuffer{}
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Writer: buf})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	return logger, buf
}
