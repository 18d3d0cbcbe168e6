package gamemode

import (
	"fmt"
	"math"
	"math/rand"

	"titan-siege/server/internal/gamemode/settings"
	"titan-siege/server/internal/geom"
	"titan-siege/server/internal/random"
)

// ComputeHealth derives starting health for a titan of the given size.
// Disabled yields 0, which marks the titan as not tracking health.
func ComputeHealth(rng *rand.Rand, mode settings.HealthMode, min, max int, size float64) (int, error) {
	switch mode {
	case settings.HealthFixed:
		return random.IntInclusive(rng, min, max), nil
	case settings.HealthScaled:
		base := random.IntInclusive(rng, min, max)
		scaled := int(math.RoundToEven(size / 4 * float64(base)))
		return geom.Clamp(scaled, min, max), nil
	case settings.HealthDisabled:
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrInvalidHealthMode, mode)
	}
}
