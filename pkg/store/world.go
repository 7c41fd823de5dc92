package store

import (
	"github.com/arnisgo/arnis/pkg/block"
	"github.com/arnisgo/arnis/pkg/coord"
)

// GroundLevel is the subset of the ground/elevation subsystem the store
// needs to resolve ground-relative writes: the Y level of the terrain
// surface at a given world XZ.
type GroundLevel interface {
	Level(x, z int32) int32
}

// flatGround always returns a fixed base Y; used when terrain is disabled.
type flatGround struct{ baseY int32 }

func (f flatGround) Level(x, z int32) int32 { return f.baseY }

// FlatGround returns a GroundLevel that always resolves to baseY,
// equivalent to disabled terrain.
func FlatGround(baseY int32) GroundLevel { return flatGround{baseY: baseY} }

// World is the sparse in-memory voxel store owned exclusively by one
// processing unit. It is not safe for
// concurrent use by multiple goroutines without external synchronization;
// the generation driver guarantees each World is only ever touched by the
// single goroutine running its processing unit.
type World struct {
	bbox    coord.BBox
	ground  GroundLevel
	regions map[coord.RegionPos]*Region
}

// NewWorld creates an empty world store scoped to bbox, resolving
// ground-relative writes through ground.
func NewWorld(bbox coord.BBox, ground GroundLevel) *World {
	return &World{bbox: bbox, ground: ground, regions: make(map[coord.RegionPos]*Region)}
}

// BBox returns the world's selection bounding box.
func (w *World) BBox() coord.BBox { return w.bbox }

// Regions returns the store's populated regions, unordered.
func (w *World) Regions() map[coord.RegionPos]*Region { return w.regions }

// Region returns the region at rp, creating it on first touch.
func (w *World) Region(rp coord.RegionPos) *Region {
	if r, ok := w.regions[rp]; ok {
		return r
	}
	r := NewRegion(rp.X, rp.Z)
	w.regions[rp] = r
	return r
}

// GetAbsoluteY resolves a ground-relative offset to an absolute Y.
func (w *World) GetAbsoluteY(x, yOffset, z int32) int32 {
	return w.ground.Level(x, z) + yOffset
}

// cellRef locates a section and its local index for an absolute position.
func (w *World) cellRef(x, y, z int32) (*Section, int, bool) {
	if !w.bbox.Contains(coord.Point{X: x, Z: z}) {
		return nil, 0, false
	}
	if y < coord.YMin || y > coord.YMax {
		return nil, 0, false
	}
	rp := coord.RegionAt(x, z)
	cp := coord.ChunkAt(x, z)
	region := w.Region(rp)
	chunk := region.Chunk(cp)
	sec := chunk.Section(coord.SectionY(y))
	lx, lz := coord.LocalXZ(x, z)
	ly := coord.LocalY(y)
	return sec, coord.SectionIndex(lx, ly, lz), true
}

// peekBlock reads the current block at an absolute position without
// creating any sparse structure, for use by the override policy so a
// read-only check never materializes empty sections.
func (w *World) peekBlock(x, y, z int32) block.Block {
	if y < coord.YMin || y > coord.YMax {
		return block.Air
	}
	rp := coord.RegionAt(x, z)
	region, ok := w.regions[rp]
	if !ok {
		return block.Air
	}
	cp := coord.ChunkAt(x, z)
	chunk, ok := region.ChunkIfPresent(cp)
	if !ok {
		return block.Air
	}
	sec, ok := chunk.SectionIfPresent(coord.SectionY(y))
	if !ok {
		return block.Air
	}
	lx, lz := coord.LocalXZ(x, z)
	ly := coord.LocalY(y)
	return sec.BlockAt(coord.SectionIndex(lx, ly, lz))
}

// mayWrite implements the override policy given the existing block
// e at the target cell and the caller's whitelist/blacklist.
func mayWrite(e block.Block, whitelist, blacklist *block.Set) bool {
	if e.IsAir() {
		return true
	}
	if whitelist != nil {
		return whitelist.Contains(e)
	}
	if blacklist != nil {
		return !blacklist.Contains(e)
	}
	return false
}

// SetBlockAbsolute places b at the absolute position (x, y, z), subject to
// the override policy. Out-of-bbox or out-of-range writes are silently
// discarded.
func (w *World) SetBlockAbsolute(b block.Block, x, y, z int32, whitelist, blacklist *block.Set) {
	if !w.bbox.Contains(coord.Point{X: x, Z: z}) || y < coord.YMin || y > coord.YMax {
		return
	}
	existing := w.peekBlock(x, y, z)
	if !mayWrite(existing, whitelist, blacklist) {
		return
	}
	sec, idx, ok := w.cellRef(x, y, z)
	if !ok {
		return
	}
	sec.SetBlockAt(idx, b)
}

// SetBlock places b at (x, ground(x,z)+yOffset, z).
func (w *World) SetBlock(b block.Block, x, yOffset, z int32, whitelist, blacklist *block.Set) {
	y := w.GetAbsoluteY(x, yOffset, z)
	w.SetBlockAbsolute(b, x, y, z, whitelist, blacklist)
}

// FillBlocksAbsolute fills the inclusive cuboid [x0,x1]x[y0,y1]x[z0,z1]
// with b, subject to the override policy per cell.
func (w *World) FillBlocksAbsolute(b block.Block, x0, y0, z0, x1, y1, z1 int32, whitelist, blacklist *block.Set) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if z0 > z1 {
		z0, z1 = z1, z0
	}
	for x := x0; x <= x1; x++ {
		for z := z0; z <= z1; z++ {
			for y := y0; y <= y1; y++ {
				w.SetBlockAbsolute(b, x, y, z, whitelist, blacklist)
			}
		}
	}
}

// FillBlocks fills the inclusive cuboid expressed in ground-relative Y
// offsets for each column.
func (w *World) FillBlocks(b block.Block, x0, yOff0, z0, x1, yOff1, z1 int32, whitelist, blacklist *block.Set) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if z0 > z1 {
		z0, z1 = z1, z0
	}
	for x := x0; x <= x1; x++ {
		for z := z0; z <= z1; z++ {
			base := w.ground.Level(x, z)
			y0, y1 := base+yOff0, base+yOff1
			if y0 > y1 {
				y0, y1 = y1, y0
			}
			for y := y0; y <= y1; y++ {
				w.SetBlockAbsolute(b, x, y, z, whitelist, blacklist)
			}
		}
	}
}

// BlockAt reads the ground-relative block at (x, z).
func (w *World) BlockAt(x, yOffset, z int32) block.Block {
	y := w.GetAbsoluteY(x, yOffset, z)
	return w.peekBlock(x, y, z)
}

// BlockAtAbsolute reads the block at an absolute position.
func (w *World) BlockAtAbsolute(x, y, z int32) block.Block {
	return w.peekBlock(x, y, z)
}

// CheckForBlock reports whether the ground-relative cell currently holds
// one of the blocks in whitelist.
func (w *World) CheckForBlock(x, yOffset, z int32, whitelist block.Set) bool {
	return whitelist.Contains(w.BlockAt(x, yOffset, z))
}

// SetSign writes a sign block at the given absolute position, oriented by
// rotation (0-15), and records its four text lines as a block entity.
func (w *World) SetSign(lines [4]string, signBlock block.Block, x, y, z int32, rotation int) {
	if !w.bbox.Contains(coord.Point{X: x, Z: z}) || y < coord.YMin || y > coord.YMax {
		return
	}
	sec, idx, ok := w.cellRef(x, y, z)
	if !ok {
		return
	}
	sec.SetBlockAt(idx, signBlock)

	rp := coord.RegionAt(x, z)
	cp := coord.ChunkAt(x, z)
	chunk := w.Region(rp).Chunk(cp)
	chunk.AddSign(SignEntity{X: x, Y: y, Z: z, Lines: lines, Rotation: rotation})
}
