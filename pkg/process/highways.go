package process

import (
	"github.com/arnisgo/arnis/pkg/block"
	"github.com/arnisgo/arnis/pkg/coord"
	"github.com/arnisgo/arnis/pkg/osm"
)

// streetlightInterval is the spacing, in rasterized centerline cells,
// between streetlight posts along a highway.
const streetlightInterval = 12

// highwayFootprint rasterizes a highway element's centerline and dilates it
// to its tagged width. It is the pure-geometry half of processHighway,
// factored out so the global connectivity pre-compute (driver.go phase 3)
// can derive the same cell set without a World to write into.
func highwayFootprint(el osm.ProcessedElement) (cells map[coord.Point]struct{}, centerline []coord.Point, tag string) {
	if len(el.Line) < 2 {
		return nil, nil, ""
	}
	tag = el.Tags["highway"]
	centerline = rasterizePolyline(el.Line)
	radius := highwayWidth(tag) / 2
	cells = dilateDisk(centerline, radius)
	return cells, centerline, tag
}

// processHighway rasterizes a highway's centerline, dilates it to its
// tagged width, replaces the surface, places streetlights at a fixed
// interval, and records the cells it covers into the shared connectivity
// graph so bridge/waterway/tree processors can resolve crossings.
// The connectivity graph itself was already populated once globally
// in phase 3; this Add call just mirrors that as each unit writes its own
// blocks.
func processHighway(pc *Context, el osm.ProcessedElement) error {
	cells, centerline, tag := highwayFootprint(el)
	if cells == nil {
		return nil
	}
	surface := highwaySurface(tag)

	for p := range cells {
		pc.World.SetBlock(surface, p.X, 0, p.Z, nil, nil)
		pc.World.SetBlock(block.Air, p.X, 1, p.Z, nil, nil)
		pc.Highways.Add(p, tag)
	}

	if tag == "footway" || tag == "pedestrian" {
		return nil
	}
	for i := 0; i < len(centerline); i += streetlightInterval {
		p := centerline[i]
		pc.World.SetBlock(block.OakLog, p.X, 1, p.Z, nil, nil)
		pc.World.SetBlock(block.Glowstone, p.X, 2, p.Z, nil, nil)
	}
	return nil
}
