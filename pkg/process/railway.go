package process

import (
	"github.com/arnisgo/arnis/pkg/block"
	"github.com/arnisgo/arnis/pkg/osm"
)

// processRailwayOrBridge rasterizes a railway centerline as rail blocks on
// a gravel bed, or a bridge way as an elevated deck. Both share a
// single centerline-rasterize-and-replace shape, so one processor serves
// both categories.
func processRailwayOrBridge(pc *Context, el osm.ProcessedElement) error {
	if len(el.Line) < 2 {
		return nil
	}
	cells := rasterizePolyline(el.Line)

	if _, isBridge := el.Tags["bridge"]; isBridge && el.Tags["bridge"] != "no" {
		for _, p := range cells {
			pc.World.SetBlock(block.StoneBricks, p.X, 2, p.Z, nil, nil)
			pc.World.SetBlock(block.Air, p.X, 3, p.Z, nil, nil)
			pc.World.SetBlock(block.Air, p.X, 4, p.Z, nil, nil)
			// Sponge keeps the clearance under the deck: the waterway and
			// water-area passes run later and never overwrite a non-air
			// block under the default policy, so the span stays open
			// instead of being flooded or resurfaced.
			pc.World.SetBlock(block.Sponge, p.X, 0, p.Z, nil, nil)
			pc.Highways.Add(p, "bridge")
		}
		return nil
	}

	for _, p := range cells {
		pc.World.SetBlock(block.Gravel, p.X, 0, p.Z, nil, nil)
		pc.World.SetBlock(block.Rail("rail"), p.X, 1, p.Z, nil, nil)
	}
	return nil
}
