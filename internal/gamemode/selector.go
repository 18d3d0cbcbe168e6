package gamemode

import (
	"math/rand"

	"titan-siege/server/internal/gamemode/settings"
	"titan-siege/server/internal/random"
	"titan-siege/server/internal/titan"
)

type ratioEntry struct {
	archetype  titan.Archetype
	cumulative float64
}

// ratioDistribution builds the cumulative distribution over the archetypes
// that survive the disabled set, in enumeration order. Fractions are relative
// to the surviving total and the last entry is pinned to 1.
func ratioDistribution(c *settings.Common) []ratioEntry {
	total := 0.0
	for _, archetype := range titan.Archetypes() {
		if weight, ok := c.TitanTypeRatio[archetype]; ok && weight > 0 && !c.IsDisabled(archetype) {
			total += weight
		}
	}
	if total <= 0 {
		return nil
	}
	var entries []ratioEntry
	running := 0.0
	for _, archetype := range titan.Archetypes() {
		weight, ok := c.TitanTypeRatio[archetype]
		if !ok || weight <= 0 || c.IsDisabled(archetype) {
			continue
		}
		running += weight / total
		entries = append(entries, ratioEntry{archetype: archetype, cumulative: running})
	}
	entries[len(entries)-1].cumulative = 1
	return entries
}

// SelectArchetype draws an archetype from the configured ratio mapping. ok is
// false when weighted selection is off or nothing can be drawn; the caller
// must then fall back to UniformArchetype.
func SelectArchetype(rng *rand.Rand, c *settings.Common) (titan.Archetype, bool) {
	if !c.CustomTitanRatio {
		return 0, false
	}
	r := rng.Float64()
	for _, entry := range ratioDistribution(c) {
		if r < entry.cumulative {
			return entry.archetype, true
		}
	}
	return 0, false
}

// UniformArchetype picks from the full enumeration, ignoring ratios and the
// disabled set.
func UniformArchetype(rng *rand.Rand) titan.Archetype {
	all := titan.Archetypes()
	return all[random.Index(rng, len(all))]
}
