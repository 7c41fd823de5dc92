// Package process implements the element processors: one function
// per OSM category, each consuming a ProcessedElement plus the world
// store, ground, and the shared global structures built before the
// parallel phase forks.
package process

import "math/rand"

// splitmix64 mixes a 64-bit state forward one step (multiply-xorshift
// finalizer rounds), a reusable seed mixer so every deterministic RNG in
// this package draws from one well-tested construction.
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// elementRNG returns a deterministic RNG seeded solely by an element's id,
// so the same element always yields the same output regardless of
// which processing unit handles it.
func elementRNG(id int64) *rand.Rand {
	seed := splitmix64(uint64(id))
	return rand.New(rand.NewSource(int64(seed)))
}

// coordRNG returns a deterministic RNG seeded by (x, z, id), for
// choices that should vary across repeated cells of the same element
// (e.g. forest tree placement) while remaining stable across runs.
func coordRNG(x, z int32, id int64) *rand.Rand {
	h := uint64(int64(x))*0x9E3779B185EBCA87 ^ uint64(int64(z))*0xC2B2AE3D27D4EB4F ^ uint64(id)
	seed := splitmix64(h)
	return rand.New(rand.NewSource(int64(seed)))
}
