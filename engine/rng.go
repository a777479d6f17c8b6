package engine

import "math/rand"

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position increments with every draw, enabling save/restore: a session
// restored from (seed, position) reproduces the exact upcoming rolls.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Intn returns a random index in [0, n). Used for enemy and question picks.
func (r *RNG) Intn(n int) int {
	r.pos++
	return r.src.Intn(n)
}

// Chance returns true with probability p (encounter and drop rolls).
func (r *RNG) Chance(p float64) bool {
	r.pos++
	return r.src.Float64() < p
}

// Seed returns the seed this RNG was created from.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of draws made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}

// RestoreRNG creates an RNG and advances it to the given position.
// This reproduces the exact RNG state for save/load.
func RestoreRNG(seed int64, position int64) *RNG {
	rng := NewRNG(seed)
	for i := int64(0); i < position; i++ {
		rng.src.Int63()
	}
	rng.pos = position
	return rng
}
