package rng

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"

	"goab/domain/core"
	"goab/ports"
)

var _ ports.RNGPort = (*Deterministic)(nil)

// Deterministic implements ports.RNGPort with name-scoped seeded streams.
// The stream seed mixes the operation name into the caller's seed so that
// differently named operations never share a sequence.
type Deterministic struct{}

// NewDeterministic creates the deterministic RNG adapter
func NewDeterministic() *Deterministic {
	return &Deterministic{}
}

// SeededStream creates a deterministic generator for a named operation
func (d *Deterministic) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if name == "" {
		return nil, core.NewInvalidInputError("stream name", "cannot be empty")
	}
	return rand.New(rand.NewSource(streamSeed(name, seed))), nil
}

// ValidateSeed replays the stream and compares its first draws against
// the expected values
func (d *Deterministic) ValidateSeed(ctx context.Context, name string, seed int64, expected []float64) error {
	stream, err := d.SeededStream(ctx, name, seed)
	if err != nil {
		return err
	}
	for i, want := range expected {
		got := stream.Float64()
		if got != want {
			return fmt.Errorf("%w: stream %q draw %d produced %v, expected %v",
				core.ErrSeedMismatch, name, i, got, want)
		}
	}
	return nil
}

func streamSeed(name string, seed int64) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return seed ^ int64(h.Sum64())
}
