package process

import (
	"github.com/arnisgo/arnis/pkg/block"
	"github.com/arnisgo/arnis/pkg/osm"
)

// waterwayWidths maps a waterway tag value to its rasterized width in
// blocks.
var waterwayWidths = map[string]int32{
	"river": 5, "canal": 4, "stream": 1, "drain": 1, "ditch": 1,
}

func waterwayWidth(tag string) int32 {
	if w, ok := waterwayWidths[tag]; ok {
		return w
	}
	return 1
}

// processWaterway rasterizes a waterway centerline, widens it by its
// tagged width, and carves it one block below ground so it reads as a
// trench of water. A cell that the highway connectivity graph
// already claims is treated as a bridge crossing and left untouched so the
// road deck keeps its surface instead of being carved under.
func processWaterway(pc *Context, el osm.ProcessedElement) error {
	if len(el.Line) < 2 {
		return nil
	}
	tag := el.Tags["waterway"]
	centerline := rasterizePolyline(el.Line)
	radius := waterwayWidth(tag) / 2
	cells := dilateDisk(centerline, radius)

	for p := range cells {
		if _, crossed := pc.Highways.At(p); crossed {
			continue
		}
		pc.World.SetBlock(block.Water, p.X, -1, p.Z, nil, nil)
		pc.World.SetBlock(block.Air, p.X, 0, p.Z, nil, nil)
	}
	return nil
}
