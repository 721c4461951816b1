package engine

import (
	"math/rand/v2"
	"time"
)

// RandomSource is the process-wide uniform-float source described in the
// design: lifecycle-scoped to one Engine (created at Init, destroyed at
// Deinit), consumed only by the evolutionary pipeline — migration never
// touches it, so no contention arises between the two.
type RandomSource struct {
	rng *rand.Rand
}

// NewRandomSource seeds a RandomSource from the current time, matching the
// design's "init seeds the random source with a time-derived seed".
// Cross-run reproducibility is an explicit non-goal.
func NewRandomSource() *RandomSource {
	seed := uint64(time.Now().UnixNano())

	return &RandomSource{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Fill draws uniform floats in [0, 1) into buf.
func (r *RandomSource) Fill(buf []float32) {
	for i := range buf {
		buf[i] = r.rng.Float32()
	}
}
