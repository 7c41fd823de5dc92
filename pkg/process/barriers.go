package process

import (
	"github.com/arnisgo/arnis/pkg/block"
	"github.com/arnisgo/arnis/pkg/osm"
)

// processBarrier rasterizes a barrier way (wall, fence, hedge) as a
// single-wide, two-block-tall wall.
func processBarrier(pc *Context, el osm.ProcessedElement) error {
	if len(el.Line) < 2 {
		return nil
	}
	wall := barrierWallFor(el.Tags)
	for _, p := range rasterizePolyline(el.Line) {
		pc.World.SetBlock(wall, p.X, 1, p.Z, nil, nil)
		pc.World.SetBlock(wall, p.X, 2, p.Z, nil, nil)
	}
	return nil
}

func barrierWallFor(tags map[string]string) block.Block {
	switch tags["barrier"] {
	case "hedge":
		return block.OakLeaves
	case "fence":
		return block.Fence("oak")
	default:
		return barrierWall
	}
}
