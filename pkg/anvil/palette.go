package anvil

import (
	"github.com/arnisgo/arnis/pkg/block"
)

// packIndices packs 4096 palette indices into a dense array of 64-bit
// longs rule: low bits first, no index straddles a
// long boundary, order y*256+z*16+x (the caller supplies indices already
// in that order).
func packIndices(indices []uint16, bitWidth int) []int64 {
	perLong := 64 / bitWidth
	numLongs := (len(indices) + perLong - 1) / perLong
	out := make([]int64, numLongs)

	for i, v := range indices {
		longIdx := i / perLong
		bitOffset := (i % perLong) * bitWidth
		out[longIdx] |= int64(v) << uint(bitOffset)
	}
	return out
}

// encodeBlockStates builds the palette half of a section's block_states
// compound. It leaves Data nil; callers pack the section's indices into
// Data themselves, and leave it nil for a single-entry palette.
func encodeBlockStates(pal *block.Palette) blockStates {
	entries := pal.Entries()
	paletteOut := make([]paletteEntry, len(entries))
	for i, b := range entries {
		paletteOut[i] = paletteEntry{Name: b.NamespacedID(), Properties: propsMap(b)}
	}

	bs := blockStates{Palette: paletteOut}
	if len(entries) <= 1 {
		return bs
	}
	return bs
}

func propsMap(b block.Block) map[string]string {
	order := b.PropertyOrder()
	if len(order) == 0 {
		return nil
	}
	m := make(map[string]string, len(order))
	for _, k := range order {
		if v, ok := b.Property(k); ok {
			m[k] = v
		}
	}
	return m
}
