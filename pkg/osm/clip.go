package osm

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"

	"github.com/arnisgo/arnis/pkg/coord"
)

// clipBuffer extends the selection bbox by a small margin so elements
// straddling the boundary still contribute the portion that falls
// inside.
const clipBuffer = 8

func clipBound(bbox coord.BBox) orb.Bound {
	return orb.Bound{
		Min: orb.Point{float64(bbox.MinX - clipBuffer), float64(bbox.MinZ - clipBuffer)},
		Max: orb.Point{float64(bbox.MaxX + clipBuffer), float64(bbox.MaxZ + clipBuffer)},
	}
}

// clipLine clips a polyline against bbox using orb/clip, returning each
// surviving segment (a line can split into several when it exits and
// re-enters the bbox).
func clipLine(bbox coord.BBox, line []coord.Point) [][]coord.Point {
	if len(line) < 2 {
		return nil
	}
	ls := make(orb.LineString, len(line))
	for i, p := range line {
		ls[i] = pointToOrb(p)
	}
	clipped := clip.LineString(clipBound(bbox), ls)
	out := make([][]coord.Point, 0, len(clipped))
	for _, seg := range clipped {
		if len(seg) < 2 {
			continue
		}
		pts := make([]coord.Point, len(seg))
		for i, p := range seg {
			pts[i] = orbToPoint(p)
		}
		out = append(out, pts)
	}
	return out
}

// clipRing clips a closed ring (outer or inner) against bbox via
// Sutherland-Hodgman, wired through orb/clip.
func clipRing(bbox coord.BBox, ring []coord.Point) []coord.Point {
	if len(ring) < 3 {
		return nil
	}
	r := make(orb.Ring, len(ring))
	for i, p := range ring {
		r[i] = pointToOrb(p)
	}
	clipped := clip.Ring(clipBound(bbox), r)
	if len(clipped) < 3 {
		return nil
	}
	out := make([]coord.Point, len(clipped))
	for i, p := range clipped {
		out[i] = orbToPoint(p)
	}
	return out
}
