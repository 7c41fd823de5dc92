package osm

import (
	"sort"

	"github.com/arnisgo/arnis/pkg/coord"
)

// Parse decodes raw OSM JSON, projects every node into world XZ, classifies
// and clips ways/relations, and returns the result sorted by processor
// priority.
func Parse(raw []byte, geoBBox coord.GeoBBox, worldBBox coord.BBox, scale coord.Scale) ([]ProcessedElement, error) {
	doc, err := decodeDocument(raw)
	if err != nil {
		return nil, err
	}

	nodePoints := make(map[int64]coord.Point)
	nodeTags := make(map[int64]map[string]string)
	ways := make(map[int64]rawElement)

	for _, el := range doc.Elements {
		switch el.Type {
		case "node":
			nodePoints[el.ID] = coord.Project(geoBBox, coord.GeoPoint{Lon: el.Lon, Lat: el.Lat}, scale)
			if len(el.Tags) > 0 {
				nodeTags[el.ID] = el.Tags
			}
		case "way":
			ways[el.ID] = el
		}
	}

	var out []ProcessedElement

	for id, tags := range nodeTags {
		cat, ok := classify(tags, true)
		if !ok {
			continue
		}
		p := nodePoints[id]
		if !clipBound(worldBBox).Contains(pointToOrb(p)) {
			continue
		}
		out = append(out, NewElement(ProcessedElement{
			ID: id, Category: cat, Geometry: GeometryPoint, Tags: tags, Point: p,
		}))
	}

	for id, way := range ways {
		if len(way.Tags) == 0 {
			continue
		}
		cat, ok := classify(way.Tags, false)
		if !ok {
			continue
		}
		pts := wayPoints(way, nodePoints)
		if len(pts) < 2 {
			continue
		}
		elem, ok := buildWayElement(id, cat, way.Tags, pts, worldBBox)
		if !ok {
			continue
		}
		out = append(out, elem)
	}

	for _, el := range doc.Elements {
		if el.Type != "relation" {
			continue
		}
		if el.Tags["type"] != "multipolygon" {
			continue
		}
		cat, ok := classify(el.Tags, false)
		if !ok {
			continue
		}
		elem, ok := buildRelationElement(el, cat, ways, nodePoints, worldBBox)
		if !ok {
			continue
		}
		out = append(out, elem)
	}

	// Priority first, then element id (with geometry as a last-resort
	// tiebreaker, since node and way id spaces overlap): node/way maps
	// iterate in randomized order above, and the element sequence must be
	// identical between runs for the output to be byte-identical.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority() != out[j].Priority() {
			return out[i].Priority() < out[j].Priority()
		}
		if out[i].ID != out[j].ID {
			return out[i].ID < out[j].ID
		}
		return out[i].Geometry < out[j].Geometry
	})
	return out, nil
}

func wayPoints(way rawElement, nodePoints map[int64]coord.Point) []coord.Point {
	pts := make([]coord.Point, 0, len(way.Nodes))
	for _, nid := range way.Nodes {
		if p, ok := nodePoints[nid]; ok {
			pts = append(pts, p)
		}
	}
	return pts
}

func pointsClosed(pts []coord.Point) bool {
	return len(pts) >= 4 && pts[0] == pts[len(pts)-1]
}

func isPolygonCategory(cat Category) bool {
	switch cat {
	case CategoryBuilding, CategoryLanduse, CategoryNatural, CategoryLeisure, CategoryWaterArea, CategoryTourism, CategoryAmenity:
		return true
	}
	return false
}

// buildWayElement clips a way's geometry and wraps it in a
// ProcessedElement, dropping it if nothing survives the clip.
func buildWayElement(id int64, cat Category, tags map[string]string, pts []coord.Point, bbox coord.BBox) (ProcessedElement, bool) {
	if isPolygonCategory(cat) && pointsClosed(pts) {
		ring := clipRing(bbox, pts)
		if len(ring) < 3 {
			return ProcessedElement{}, false
		}
		return NewElement(ProcessedElement{
			ID: id, Category: cat, Geometry: GeometryPolygon, Tags: tags,
			Rings: [][]coord.Point{ring},
		}), true
	}

	segments := clipLine(bbox, pts)
	if len(segments) == 0 {
		return ProcessedElement{}, false
	}
	// Elements whose clip produced multiple disjoint segments keep only
	// the longest; each processor consumes one contiguous line.
	longest := segments[0]
	for _, seg := range segments[1:] {
		if len(seg) > len(longest) {
			longest = seg
		}
	}
	return NewElement(ProcessedElement{
		ID: id, Category: cat, Geometry: GeometryLineString, Tags: tags,
		Line: longest,
	}), true
}

// buildRelationElement assembles a multipolygon relation's outer and
// inner rings from its member ways. Member ways are
// concatenated in member order; this assumes well-formed Overpass output
// where outer/inner member chains already trace a closed ring, which
// holds for the vast majority of real-world multipolygons.
func buildRelationElement(rel rawElement, cat Category, ways map[int64]rawElement, nodePoints map[int64]coord.Point, bbox coord.BBox) (ProcessedElement, bool) {
	var outer, inner []coord.Point
	for _, m := range rel.Members {
		if m.Type != "way" {
			continue
		}
		way, ok := ways[m.Ref]
		if !ok {
			continue
		}
		pts := wayPoints(way, nodePoints)
		switch m.Role {
		case "inner":
			inner = append(inner, pts...)
		default:
			outer = append(outer, pts...)
		}
	}
	if len(outer) < 3 {
		return ProcessedElement{}, false
	}

	rings := make([][]coord.Point, 0, 2)
	outerClipped := clipRing(bbox, closeRing(outer))
	if len(outerClipped) < 3 {
		return ProcessedElement{}, false
	}
	rings = append(rings, outerClipped)

	if len(inner) >= 3 {
		if innerClipped := clipRing(bbox, closeRing(inner)); len(innerClipped) >= 3 {
			rings = append(rings, innerClipped)
		}
	}

	tags := rel.Tags
	return NewElement(ProcessedElement{
		ID: rel.ID, Category: cat, Geometry: GeometryPolygon, Tags: tags,
		Rings: rings,
	}), true
}

func closeRing(pts []coord.Point) []coord.Point {
	if len(pts) == 0 || pts[0] == pts[len(pts)-1] {
		return pts
	}
	return append(append([]coord.Point{}, pts...), pts[0])
}

func ringBound(ring []coord.Point) coord.BBox {
	bb := coord.BBox{MinX: ring[0].X, MaxX: ring[0].X, MinZ: ring[0].Z, MaxZ: ring[0].Z}
	for _, p := range ring[1:] {
		if p.X < bb.MinX {
			bb.MinX = p.X
		}
		if p.X > bb.MaxX {
			bb.MaxX = p.X
		}
		if p.Z < bb.MinZ {
			bb.MinZ = p.Z
		}
		if p.Z > bb.MaxZ {
			bb.MaxZ = p.Z
		}
	}
	return bb
}

func lineBound(line []coord.Point) coord.BBox { return ringBound(line) }
