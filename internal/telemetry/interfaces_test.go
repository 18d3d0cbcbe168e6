package telemetry

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestWrapLoggerWrites(t *testing.T) {
	var buf bytes.Buffer
	logger := WrapLogger(log.New(&buf, "", 0))
	logger.Printf("spawned %d", 3)
	if !strings.Contains(buf.String(), "spawned 3") {
		t.Fatalf("expected message written, got %q", buf.String())
	}
}

func TestNilLoggersDiscard(t *testing.T) {
	WrapLogger(nil).Printf("ignored")
	LoggerFunc(nil).Printf("ignored")
}
