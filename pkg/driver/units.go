package driver

import (
	"github.com/arnisgo/arnis/pkg/coord"
	"github.com/arnisgo/arnis/pkg/osm"
)

// unitBuffer is the fetch-range expansion applied to a unit's own region
// bbox so cross-boundary interactions (a tree abutting a building on the
// next region over, a highway crossing a region seam) resolve correctly
// from inside a single unit's local view.
const unitBuffer = 64

// unit is one region's worth of processing work: its own clipped bbox
// (what it is allowed to write, via store.World's bbox containment check)
// and the wider, buffered bbox used to decide which elements it considers
// at all.
type unit struct {
	region  coord.RegionPos
	bbox    coord.BBox // intersected with the overall selection; what this unit may write
	elements []osm.ProcessedElement
}

// planUnits divides worldBBox into one processing unit per Minecraft
// region it touches, and assigns each unit the subset of elements whose
// bbox intersects that unit's buffered fetch range.
// Relations straddling a unit boundary are duplicated into every unit
// they touch; store.World's own bbox check then discards whatever each
// unit writes outside its own slice, so no further
// polygon-reclipping is needed per unit.
func planUnits(worldBBox coord.BBox, elements []osm.ProcessedElement) []*unit {
	minRX := worldBBox.MinX >> 9
	maxRX := worldBBox.MaxX >> 9
	minRZ := worldBBox.MinZ >> 9
	maxRZ := worldBBox.MaxZ >> 9

	var units []*unit
	for rx := minRX; rx <= maxRX; rx++ {
		for rz := minRZ; rz <= maxRZ; rz++ {
			rp := coord.RegionPos{X: rx, Z: rz}
			regionBBox := coord.BBox{MinX: rx * 512, MaxX: rx*512 + 511, MinZ: rz * 512, MaxZ: rz*512 + 511}
			clipped := intersectBBox(regionBBox, worldBBox)
			units = append(units, &unit{region: rp, bbox: clipped})
		}
	}

	for _, u := range units {
		fetchBBox := u.bbox.Expand(unitBuffer)
		for _, el := range elements {
			if fetchBBox.Intersects(el.BBox()) {
				u.elements = append(u.elements, el)
			}
		}
	}
	return units
}

func intersectBBox(a, b coord.BBox) coord.BBox {
	out := coord.BBox{
		MinX: maxInt32(a.MinX, b.MinX), MaxX: minInt32(a.MaxX, b.MaxX),
		MinZ: maxInt32(a.MinZ, b.MinZ), MaxZ: minInt32(a.MaxZ, b.MaxZ),
	}
	if out.MinX > out.MaxX {
		out.MaxX = out.MinX
	}
	if out.MinZ > out.MaxZ {
		out.MaxZ = out.MinZ
	}
	return out
}

func maxInt32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func minInt32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
