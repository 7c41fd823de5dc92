package process

import (
	"github.com/arnisgo/arnis/pkg/block"
	"github.com/arnisgo/arnis/pkg/coord"
	"github.com/arnisgo/arnis/pkg/osm"
)

// minTrunkHeight and maxTrunkHeight bound a tree's trunk, in log blocks.
const (
	minTrunkHeight = 4
	maxTrunkHeight = 7
)

// processTree places a single trunk-and-canopy tree at a natural=tree
// node, skipping it entirely if its base cell already falls inside a
// building footprint or on a paved highway cell.
func processTree(pc *Context, el osm.ProcessedElement) error {
	if pc.Footprint.Contains(el.Point) {
		return nil
	}
	if _, onHighway := pc.Highways.At(el.Point); onHighway {
		return nil
	}
	plantTree(pc, el.ID, el.Tags, el.Point)
	return nil
}

// plantTree writes a trunk of 4-7 logs topped by a 5x3x5 canopy of
// leaves. Species and trunk height are chosen deterministically from the
// base coordinate and element id (or an explicit species tag when
// available), so a tree straddling two processing units grows identically
// in both.
func plantTree(pc *Context, id int64, tags map[string]string, p coord.Point) {
	species := treeSpeciesFor(tags, id)
	log := block.Log(species)
	leaves := block.Leaves(species)

	rng := coordRNG(p.X, p.Z, id)
	trunkHeight := int32(minTrunkHeight + rng.Intn(maxTrunkHeight-minTrunkHeight+1))

	for y := int32(1); y <= trunkHeight; y++ {
		pc.World.SetBlock(log, p.X, y, p.Z, nil, nil)
	}

	canopyBase := trunkHeight - 1
	for dy := int32(0); dy <= 2; dy++ {
		radius := int32(2)
		if dy == 2 {
			radius = 1
		}
		for dx := -radius; dx <= radius; dx++ {
			for dz := -radius; dz <= radius; dz++ {
				if dx == 0 && dz == 0 && dy < 2 {
					continue
				}
				pc.World.SetBlock(leaves, p.X+dx, canopyBase+dy, p.Z+dz, nil, nil)
			}
		}
	}
}
