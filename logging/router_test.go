package logging_test

import (
	"context"
	"testing"
	"time"

	"titan-siege/server/logging"
	"titan-siege/server/logging/sinks"
)

func TestRouterDeliversFilteredEventsWithFields(t *testing.T) {
	memory := sinks.NewMemory()
	cfg := logging.DefaultConfig()
	cfg.MinimumSeverity = logging.SeverityInfo
	cfg.Fields = map[string]any{"round": "r1"}
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	router := logging.NewRouter(cfg, logging.ClockFunc(func() time.Time { return fixed }), nil, map[string]logging.Sink{"memory": memory})

	ctx := context.Background()
	router.Publish(ctx, logging.Event{Type: "round.debug", Severity: logging.SeverityDebug})
	router.Publish(ctx, logging.Event{Type: "round.won", Severity: logging.SeverityInfo})
	router.Publish(ctx, logging.Event{Severity: logging.SeverityError})

	if err := router.Close(ctx); err != nil {
		t.Fatalf("close router: %v", err)
	}

	events := memory.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Type != "round.won" {
		t.Fatalf("expected round.won, got %s", events[0].Type)
	}
	if !events[0].Time.Equal(fixed) {
		t.Fatalf("expected clock time stamped, got %v", events[0].Time)
	}
	if events[0].Extra["round"] != "r1" {
		t.Fatalf("expected static field merged, got %v", events[0].Extra)
	}
	if stats := router.Stats(); stats.Published != 1 {
		t.Fatalf("expected 1 published event, got %d", stats.Published)
	}
}

func TestWithFieldsDoesNotOverrideEventExtra(t *testing.T) {
	memory := sinks.NewMemory()
	pub := logging.WithFields(memory, map[string]any{"gamemode": "TitanRush", "authority": true})
	pub.Publish(context.Background(), logging.Event{Type: "x", Extra: map[string]any{"gamemode": "Wave"}})

	events := memory.Events()
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	if events[0].Extra["gamemode"] != "Wave" || events[0].Extra["authority"] != true {
		t.Fatalf("unexpected extra %v", events[0].Extra)
	}
}

func TestParseSeverity(t *testing.T) {
	sev, err := logging.ParseSeverity("WARN")
	if err != nil || sev != logging.SeverityWarn {
		t.Fatalf("expected warn, got %v (%v)", sev, err)
	}
	if _, err := logging.ParseSeverity("loud"); err == nil {
		t.Fatalf("expected error for unknown severity")
	}
}
