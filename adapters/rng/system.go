package rng

import (
	"hash/fnv"
	"math/rand"
	"time"

	"testworth/ports"
)

// SystemRNG is the production RNGPort: unseeded streams by default,
// name-salted deterministic streams on request.
type SystemRNG struct{}

// NewSystemRNG creates the production RNG adapter
func NewSystemRNG() *SystemRNG {
	return &SystemRNG{}
}

// Stream returns an unseeded stream; results are not reproducible
// across calls, which is the documented production behavior.
func (s *SystemRNG) Stream() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// SeededStream returns a deterministic stream. The operation name is
// folded into the seed so distinct operations sharing one user seed do
// not consume identical random sequences.
func (s *SystemRNG) SeededStream(name string, seed int64) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return rand.New(rand.NewSource(seed ^ int64(h.Sum64())))
}

var _ ports.RNGPort = (*SystemRNG)(nil)
