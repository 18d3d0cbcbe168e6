package titan

import (
	"encoding/json"
	"testing"

	"titan-siege/server/internal/geom"
)

func TestParseArchetype(t *testing.T) {
	cases := map[string]Archetype{
		"Crawler":  ArchetypeCrawler,
		"crawler":  ArchetypeCrawler,
		" Punk ":   ArchetypePunk,
		"0":        ArchetypeNormal,
		"6":        ArchetypeBurster,
		"ABNORMAL": ArchetypeAbnormal,
	}
	for raw, want := range cases {
		got, err := ParseArchetype(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s, got %s", raw, want, got)
		}
	}
	if _, err := ParseArchetype("Colossal"); err == nil {
		t.Fatalf("expected error for unknown archetype")
	}
}

func TestArchetypeMapKeysRoundTripThroughJSON(t *testing.T) {
	var ratios map[Archetype]float64
	if err := json.Unmarshal([]byte(`{"Normal":1,"Crawler":2.5}`), &ratios); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ratios[ArchetypeNormal] != 1 || ratios[ArchetypeCrawler] != 2.5 {
		t.Fatalf("unexpected ratios %v", ratios)
	}
}

func TestWithBehaviorDoesNotAliasOriginal(t *testing.T) {
	base := NewConfiguration(100, 10, 100, 150, 2, ArchetypeNormal)
	first := base.WithBehavior(NewRushBehavior(nil))
	if len(base.Behaviors) != 0 {
		t.Fatalf("expected original configuration untouched")
	}
	if len(first.Behaviors) != 1 || first.Behaviors[0].Name() != "rush" {
		t.Fatalf("expected rush behavior attached, got %v", first.Behaviors)
	}
}

func TestRushBehaviorWalksToEnd(t *testing.T) {
	route := NewRushBehavior([]Checkpoint{
		{Position: geom.Vec3{X: 0, Z: 10}},
		{Position: geom.Vec3{X: 0, Z: 20}},
	})
	if got := len(route.Checkpoints()); got != 3 {
		t.Fatalf("expected end sentinel appended, got %d checkpoints", got)
	}
	if !route.Reached(geom.Vec3{Z: 9}, 2) {
		t.Fatalf("expected first checkpoint reached")
	}
	if route.Advance() {
		t.Fatalf("expected route to continue after first checkpoint")
	}
	if !route.Advance() {
		t.Fatalf("expected route finished after second checkpoint")
	}
	if !route.Current().End {
		t.Fatalf("expected end sentinel current")
	}
	if route.Reached(geom.Vec3{}, 1e9) {
		t.Fatalf("end sentinel must never be reached")
	}
}
