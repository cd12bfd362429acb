package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic operations.
// Every consumer of randomness goes through this port so that a fixed seed
// reproduces a run exactly.
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a
	// named operation. Streams with different names are independent even
	// under the same seed.
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// ValidateSeed replays a stream and checks it against expected draws
	ValidateSeed(ctx context.Context, name string, seed int64, expected []float64) error
}
