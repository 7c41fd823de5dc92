// Package store implements the sparse in-memory voxel world and its
// block-placement engine: world -> region -> chunk -> section, with
// an override policy that is the single mechanism processors use to
// express rasterization priority.
package store

import (
	"github.com/arnisgo/arnis/pkg/block"
)

// SectionBlocks is the number of blocks in one 16x16x16 section.
const SectionBlocks = 16 * 16 * 16

// Section is a 16x16x16 cube of blocks. The hot array stores only a small
// palette index per cell; the actual
// block descriptors, including any non-default properties, live once each
// in the section's own palette rather than duplicated 4096 times.
type Section struct {
	Y       int32
	indices [SectionBlocks]uint16
	palette *block.Palette
}

// NewSection creates an empty (all-air) section at section-Y sy.
func NewSection(sy int32) *Section {
	s := &Section{Y: sy, palette: block.NewPalette()}
	s.palette.Index(block.Air)
	return s
}

// BlockAt returns the block stored at local index i (0..4095).
func (s *Section) BlockAt(i int) block.Block {
	return s.palette.Entries()[s.indices[i]]
}

// SetBlockAt writes b at local index i (0..4095).
func (s *Section) SetBlockAt(i int, b block.Block) {
	s.indices[i] = uint16(s.palette.Index(b))
}

// IsEmpty reports whether every cell in the section is air.
func (s *Section) IsEmpty() bool {
	if s.palette.Len() == 1 {
		return true
	}
	airIdx := -1
	for i, e := range s.palette.Entries() {
		if e.IsAir() {
			airIdx = i
			break
		}
	}
	if airIdx < 0 {
		return false
	}
	for _, idx := range s.indices {
		if int(idx) != airIdx {
			return false
		}
	}
	return true
}

// Palette returns the section's block palette, in insertion order.
func (s *Section) Palette() *block.Palette { return s.palette }

// Indices returns the raw per-cell palette indices, ordered y*256+z*16+x.
func (s *Section) Indices() [SectionBlocks]uint16 { return s.indices }
