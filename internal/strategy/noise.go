package strategy

import "math/rand"

// NoiseSource produces the simulated sentiment values of a decision state.
type NoiseSource interface {
	// Sentiment returns a value in [-0.5, 0.5).
	Sentiment() float64
}

// RandNoise draws uniform sentiment from its own rand stream.
// It is not safe for concurrent use; give each episode its own.
type RandNoise struct {
	rng *rand.Rand
}

// NewNoise creates a seeded noise source.
func NewNoise(seed int64) *RandNoise {
	return &RandNoise{rng: rand.New(rand.NewSource(seed))}
}

func (n *RandNoise) Sentiment() float64 {
	return n.rng.Float64() - 0.5
}

// FixedNoise always returns the same sentiment. Useful in tests.
type FixedNoise float64

func (f FixedNoise) Sentiment() float64 { return float64(f) }
