package gamemode

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"titan-siege/server/internal/gamemode/settings"
	"titan-siege/server/internal/titan"
)

func TestSelectArchetypeFollowsRatios(t *testing.T) {
	common := &settings.Common{
		CustomTitanRatio: true,
		TitanTypeRatio: map[titan.Archetype]float64{
			titan.ArchetypeNormal:   0.25,
			titan.ArchetypeAbnormal: 0.25,
			titan.ArchetypeJumper:   0.5,
		},
	}
	rng := rand.New(rand.NewSource(42))
	const draws = 20000
	counts := make(map[titan.Archetype]int)
	for i := 0; i < draws; i++ {
		archetype, ok := SelectArchetype(rng, common)
		if !ok {
			t.Fatalf("expected weighted selection to succeed on draw %d", i)
		}
		counts[archetype]++
	}
	want := map[titan.Archetype]float64{
		titan.ArchetypeNormal:   0.25,
		titan.ArchetypeAbnormal: 0.25,
		titan.ArchetypeJumper:   0.5,
	}
	for archetype, fraction := range want {
		got := float64(counts[archetype]) / draws
		if math.Abs(got-fraction) > 0.02 {
			t.Fatalf("expected %s near %.2f, got %.3f", archetype, fraction, got)
		}
	}
	if len(counts) != len(want) {
		t.Fatalf("expected only weighted archetypes, got %v", counts)
	}
}

func TestSelectArchetypeNeverDrawsDisabled(t *testing.T) {
	common := &settings.Common{
		CustomTitanRatio: true,
		TitanTypeRatio: map[titan.Archetype]float64{
			titan.ArchetypeNormal:  1,
			titan.ArchetypePunk:    1,
			titan.ArchetypeCrawler: 1,
		},
		DisabledTitans: []titan.Archetype{titan.ArchetypePunk},
	}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 5000; i++ {
		archetype, ok := SelectArchetype(rng, common)
		if !ok {
			t.Fatalf("expected a draw on iteration %d", i)
		}
		if archetype == titan.ArchetypePunk {
			t.Fatalf("disabled archetype drawn on iteration %d", i)
		}
	}
}

func TestSelectArchetypeFallsBack(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	cases := map[string]*settings.Common{
		"ratio off": {TitanTypeRatio: map[titan.Archetype]float64{titan.ArchetypeNormal: 1}},
		"empty":     {CustomTitanRatio: true},
		"all disabled": {
			CustomTitanRatio: true,
			TitanTypeRatio:   map[titan.Archetype]float64{titan.ArchetypeStalker: 1},
			DisabledTitans:   []titan.Archetype{titan.ArchetypeStalker},
		},
		"zero weights": {
			CustomTitanRatio: true,
			TitanTypeRatio:   map[titan.Archetype]float64{titan.ArchetypeBurster: 0},
		},
	}
	for name, common := range cases {
		if archetype, ok := SelectArchetype(rng, common); ok {
			t.Fatalf("%s: expected fallback, got %s", name, archetype)
		}
	}
	if archetype := UniformArchetype(rng); !archetype.Valid() {
		t.Fatalf("expected a valid uniform archetype, got %d", archetype)
	}
}

func TestComputeHealth(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 200; i++ {
		health, err := ComputeHealth(rng, settings.HealthFixed, 100, 200, 1)
		if err != nil {
			t.Fatalf("fixed health: %v", err)
		}
		if health < 100 || health > 200 {
			t.Fatalf("expected fixed health in [100,200], got %d", health)
		}
	}

	small, err := ComputeHealth(rng, settings.HealthScaled, 100, 200, 0.4)
	if err != nil {
		t.Fatalf("scaled health: %v", err)
	}
	if small != 100 {
		t.Fatalf("expected small titan clamped to 100, got %d", small)
	}
	large, err := ComputeHealth(rng, settings.HealthScaled, 100, 200, 40)
	if err != nil {
		t.Fatalf("scaled health: %v", err)
	}
	if large != 200 {
		t.Fatalf("expected large titan clamped to 200, got %d", large)
	}
	exact, err := ComputeHealth(rng, settings.HealthScaled, 150, 150, 4)
	if err != nil {
		t.Fatalf("scaled health: %v", err)
	}
	if exact != 150 {
		t.Fatalf("expected size 4 to keep base health, got %d", exact)
	}

	disabled, err := ComputeHealth(rng, settings.HealthDisabled, 100, 200, 2)
	if err != nil || disabled != 0 {
		t.Fatalf("expected disabled health 0, got %d (%v)", disabled, err)
	}

	if _, err := ComputeHealth(rng, settings.HealthMode(7), 100, 200, 2); !errors.Is(err, ErrInvalidHealthMode) {
		t.Fatalf("expected ErrInvalidHealthMode, got %v", err)
	}
	if _, err := ComputeHealth(rng, settings.HealthMode(7), 100, 200, 2); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected invalid mode to be a configuration error, got %v", err)
	}
}
