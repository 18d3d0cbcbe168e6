package observability

import (
	"context"
	"testing"
)

func TestSetupTracingNoopWithoutEndpoint(t *testing.T) {
	shutdown, err := SetupTracing(context.Background(), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("noop shutdown should not error: %v", err)
	}
}

func TestSetupTracingWithEndpoint(t *testing.T) {
	// Non-routable collector; nothing is exported before shutdown.
	shutdown, err := SetupTracing(context.Background(), Config{OTLPEndpoint: "http://192.0.2.1:4318", ServiceName: "tracing-test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}
