package store

import "github.com/arnisgo/arnis/pkg/coord"

// Region is a sparse 32x32 grid of chunks, keyed by absolute chunk
// position. Only chunks that have been touched exist in the map.
type Region struct {
	X, Z   int32
	chunks map[coord.ChunkPos]*Chunk
}

// NewRegion creates an empty region at region coordinates (rx, rz).
func NewRegion(rx, rz int32) *Region {
	return &Region{X: rx, Z: rz, chunks: make(map[coord.ChunkPos]*Chunk)}
}

// Chunk returns the chunk at absolute chunk position cp, creating it (and
// any in-between state) on first touch.
func (r *Region) Chunk(cp coord.ChunkPos) *Chunk {
	if c, ok := r.chunks[cp]; ok {
		return c
	}
	c := NewChunk(cp.X, cp.Z)
	r.chunks[cp] = c
	return c
}

// ChunkIfPresent returns the chunk at cp without creating it.
func (r *Region) ChunkIfPresent(cp coord.ChunkPos) (*Chunk, bool) {
	c, ok := r.chunks[cp]
	return c, ok
}

// Chunks returns the region's populated chunks, unordered.
func (r *Region) Chunks() map[coord.ChunkPos]*Chunk { return r.chunks }
