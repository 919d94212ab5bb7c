package rng

import (
	"context"
	"hash/fnv"
	"math/rand"
	"time"

	"gomediate/ports"
)

// DeterministicRNG implements the RNG port. Each named operation gets its own
// stream so two consumers sharing a base seed never read correlated draws;
// the name is folded into the seed with FNV-1a.
type DeterministicRNG struct{}

// NewDeterministic creates the seeded RNG adapter.
func NewDeterministic() *DeterministicRNG {
	return &DeterministicRNG{}
}

var _ ports.RNGPort = (*DeterministicRNG)(nil)

// SeededStream creates a deterministic generator for the named operation.
func (d *DeterministicRNG) SeededStream(_ context.Context, name string, seed int64) (*rand.Rand, error) {
	h := fnv.New64a()
	h.Write([]byte(name))
	return rand.New(rand.NewSource(seed ^ int64(h.Sum64()))), nil
}

// WallClockSeed derives a high-entropy seed for callers that did not pin one.
func WallClockSeed() int64 {
	return time.Now().UnixNano()
}
