// Package random provides the deterministic generators used by round logic.
//
// Each subsystem draws from its own generator derived from a root seed and a
// label, so replaying a round with the same seed reproduces archetypes, sizes,
// health and spawn choices.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math/rand"
)

// DefaultSeed is used when no root seed is configured.
const DefaultSeed = "titan-siege"

// SeedValue derives the integer seed for a labelled subsystem.
func SeedValue(rootSeed, label string) int64 {
	hasher := fnv.New64a()
	hasher.Write([]byte(rootSeed))
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}

// New returns a generator for the labelled subsystem.
func New(rootSeed, label string) *rand.Rand {
	return rand.New(rand.NewSource(SeedValue(rootSeed, label)))
}

// NewSeed generates a root seed using crypto/rand.
func NewSeed() (string, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return "", fmt.Errorf("read random seed: %w", err)
	}
	return fmt.Sprintf("%016x", binary.LittleEndian.Uint64(b[:])), nil
}

// Int returns a value in [min, maxExclusive). When the range is empty min is
// returned.
func Int(rng *rand.Rand, min, maxExclusive int) int {
	if maxExclusive <= min {
		return min
	}
	return min + rng.Intn(maxExclusive-min)
}

// IntInclusive returns a value in [min, max].
func IntInclusive(rng *rand.Rand, min, max int) int {
	return Int(rng, min, max+1)
}

// Float returns a value in [min, max).
func Float(rng *rand.Rand, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + rng.Float64()*(max-min)
}

// Index picks a uniform index into a collection of length n. n must be
// positive.
func Index(rng *rand.Rand, n int) int {
	return rng.Intn(n)
}
