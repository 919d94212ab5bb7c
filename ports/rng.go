package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic
// operations. The permutation engine draws every trial's shuffles from a
// single stream created once per invocation, so a fixed seed replays the
// identical sequence of permutation indices.
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a
	// named operation.
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)
}
