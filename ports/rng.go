package ports

import (
	"math/rand"
)

// RNGPort provides random number streams for the Monte Carlo paths.
// Production streams are unseeded; seeded streams exist purely so tests
// can pin down otherwise stochastic results.
type RNGPort interface {
	// Stream returns an unseeded production stream
	Stream() *rand.Rand

	// SeededStream returns a deterministic stream for a named operation
	SeededStream(name string, seed int64) *rand.Rand
}
