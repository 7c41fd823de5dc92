package process

import (
	"context"

	"github.com/arnisgo/arnis/pkg/block"
	"github.com/arnisgo/arnis/pkg/coord"
	"github.com/arnisgo/arnis/pkg/osm"
)

// defaultFloorHeight is the per-level height in blocks used to derive a
// building's wall height from building:levels when no explicit height tag
// is present.
const defaultFloorHeight = 3

// processBuilding rasterizes a building polygon's walls, floor, and a flat
// roof. Height resolves in priority order: an explicit height
// tag, then building:levels*3+1, then a deterministic RNG fallback in
// [4,8]. The floor sits on a single flat plane at the lowest ground Y
// found anywhere under the polygon, not one that follows terrain under
// each column. The interior is always flood-filled to lay that floor;
// the roof layer is only added when Options.Roof is set, and the interior
// clearing and single centroid light only when Options.Interior is set.
func processBuilding(ctx context.Context, pc *Context, el osm.ProcessedElement) error {
	if len(el.Rings) == 0 {
		return nil
	}
	outer := el.Rings[0]
	holes := el.Rings[1:]
	if len(outer) < 3 {
		return nil
	}

	height := buildingHeight(el.Tags, el.ID)
	material := buildingMaterialFor(el.Tags, el.ID)

	for _, p := range outer {
		pc.Footprint.Mark(p)
	}

	perimeter := rasterizePolyline(closedRing(outer))
	for _, p := range perimeter {
		pc.World.FillBlocks(material, p.X, 1, p.Z, p.X, height, p.Z, nil, nil)
	}

	interior, err := pc.FloodFill.Fill(ctx, el.ID, outer, holes)
	if err != nil {
		return err
	}

	floorY := pc.Ground.Level(outer[0].X, outer[0].Z)
	for _, p := range outer {
		if g := pc.Ground.Level(p.X, p.Z); g < floorY {
			floorY = g
		}
	}
	for _, p := range interior {
		if g := pc.Ground.Level(p.X, p.Z); g < floorY {
			floorY = g
		}
	}

	for _, p := range interior {
		pc.Footprint.Mark(p)
		pc.World.SetBlockAbsolute(block.OakPlanks, p.X, floorY, p.Z, nil, nil)
		if pc.Options.Roof {
			pc.World.SetBlock(material, p.X, height+1, p.Z, nil, nil)
		}
	}

	if pc.Options.Interior {
		for _, p := range interior {
			pc.World.SetBlock(block.Air, p.X, 1, p.Z, nil, nil)
		}
		if len(interior) > 0 {
			c := centroid(interior)
			pc.World.SetBlock(block.Glowstone, c.X, height-1, c.Z, nil, nil)
		}
	}

	return nil
}

func buildingHeight(tags map[string]string, id int64) int32 {
	if h, ok := tags["height"]; ok {
		if v, ok := parseMeters(h); ok && v > 0 {
			return v
		}
	}
	if lv, ok := tags["building:levels"]; ok {
		if v, ok := parseMeters(lv); ok && v > 0 {
			return v*defaultFloorHeight + 1
		}
	}
	rng := elementRNG(id)
	return int32(4 + rng.Intn(5))
}

// parseMeters parses a leading integer out of an OSM numeric tag value,
// ignoring any unit suffix (e.g. "12 m").
func parseMeters(s string) (int32, bool) {
	var v int32
	i := 0
	for i < len(s) && (s[i] == ' ') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		v = v*10 + int32(s[i]-'0')
		i++
	}
	if i == start {
		return 0, false
	}
	return v, true
}

func closedRing(ring []coord.Point) []coord.Point {
	if len(ring) == 0 {
		return ring
	}
	if ring[0] == ring[len(ring)-1] {
		return ring
	}
	out := make([]coord.Point, len(ring)+1)
	copy(out, ring)
	out[len(ring)] = ring[0]
	return out
}
