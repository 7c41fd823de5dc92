// Package osm implements the OSM parser and clipper: it turns a
// decoded OSM document into an ordered, bbox-clipped sequence of
// ProcessedElement values in world XZ, ready for the element processors.
package osm

import (
	"github.com/paulmach/orb"

	"github.com/arnisgo/arnis/pkg/coord"
)

// Category is an OSM element's processor category.
type Category int

const (
	CategoryBuilding Category = iota + 1
	CategoryHighway
	CategoryRailway
	CategoryBridge
	CategoryWaterway
	CategoryWaterArea
	CategoryBarrier
	CategoryLanduse
	CategoryLeisure
	CategoryNatural
	CategoryAmenity
	CategoryTourism
	CategoryTree
	CategoryDoor
)

// priority returns the category's sort priority; lower runs first.
// Unrecognized elements (value 0) never reach a
// processor.
func (c Category) priority() int { return int(c) }

// Geometry distinguishes the three shapes a ProcessedElement can carry.
type Geometry int

const (
	GeometryPoint Geometry = iota
	GeometryLineString
	GeometryPolygon
)

// ProcessedElement is one OSM node/way/relation after projection,
// classification, and clipping.
type ProcessedElement struct {
	ID       int64
	Category Category
	Geometry Geometry
	Tags     map[string]string

	// Point is set when Geometry == GeometryPoint.
	Point coord.Point

	// Line is set when Geometry == GeometryLineString: a polyline in
	// world XZ, already clipped.
	Line []coord.Point

	// Rings is set when Geometry == GeometryPolygon: the outer ring
	// first, followed by any inner (hole) rings, each already clipped.
	Rings [][]coord.Point

	// bound caches the element's world-XZ bounding box for unit
	// filtering.
	bound coord.BBox
}

// BBox returns the element's world-XZ bounding box.
func (e ProcessedElement) BBox() coord.BBox { return e.bound }

// NewElement caches the bounding box for an assembled element's geometry.
// Parse calls it for every element it emits; tests that hand-build
// elements use it for the same reason.
func NewElement(el ProcessedElement) ProcessedElement {
	switch el.Geometry {
	case GeometryPoint:
		el.bound = coord.BBox{MinX: el.Point.X, MaxX: el.Point.X, MinZ: el.Point.Z, MaxZ: el.Point.Z}
	case GeometryLineString:
		if len(el.Line) > 0 {
			el.bound = lineBound(el.Line)
		}
	case GeometryPolygon:
		if len(el.Rings) > 0 && len(el.Rings[0]) > 0 {
			el.bound = ringBound(el.Rings[0])
		}
	}
	return el
}

// Priority returns the element's processor priority (lower runs first).
func (e ProcessedElement) Priority() int { return e.Category.priority() }

func pointToOrb(p coord.Point) orb.Point { return orb.Point{float64(p.X), float64(p.Z)} }

func orbToPoint(p orb.Point) coord.Point {
	return coord.Point{X: int32(roundHalfAwayFromZero(p[0])), Z: int32(roundHalfAwayFromZero(p[1]))}
}

func roundHalfAwayFromZero(v float64) float64 {
	if v < 0 {
		return -roundHalfAwayFromZero(-v)
	}
	return float64(int64(v + 0.5))
}
