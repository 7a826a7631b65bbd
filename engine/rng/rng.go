// Package rng provides the seeded random source used for dice, shuffles
// and random picks. Every draw advances a position counter so a game can
// be replayed from its seed.
package rng

import "math/rand"

// RNG wraps math/rand.Rand with deterministic position tracking.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// New creates a new deterministic RNG from a seed.
func New(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Roll returns a random integer in [1, sides].
func (r *RNG) Roll(sides int) int {
	r.pos++
	return r.src.Intn(sides) + 1
}

// Intn returns a random index in [0, n). n must be positive.
func (r *RNG) Intn(n int) int {
	r.pos++
	return r.src.Intn(n)
}

// Shuffle permutes n elements in place through swap.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	r.pos++
	r.src.Shuffle(n, swap)
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of RNG calls made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}
