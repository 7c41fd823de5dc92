package process

import (
	"context"

	"github.com/arnisgo/arnis/pkg/osm"
)

// PrecomputeFootprint builds the building-footprint bitmap once, globally,
// over every building element in the run, not just the subset a single
// unit later buffers, before phase 5 forks one goroutine per unit. It
// mirrors the outer-ring and interior-cell marking processBuilding
// performs per-unit, using the same scanline fill, so re-running it
// per-unit during phase 5 (as processBuilding still does, to place its
// blocks) lands on the same cells.
func PrecomputeFootprint(ctx context.Context, elements []osm.ProcessedElement) (*BuildingFootprintBitmap, error) {
	fp := NewBuildingFootprintBitmap()
	for _, el := range elements {
		if el.Category != osm.CategoryBuilding || len(el.Rings) == 0 {
			continue
		}
		outer := el.Rings[0]
		if len(outer) < 3 {
			continue
		}
		holes := el.Rings[1:]

		for _, p := range outer {
			fp.Mark(p)
		}

		interior, err := scanlineFill(outer, holes, func() error { return ctx.Err() })
		if err != nil {
			return nil, err
		}
		for _, p := range interior {
			fp.Mark(p)
		}
	}
	return fp, nil
}

// PrecomputeHighways builds the highway connectivity graph once, globally,
// over every highway element in the run, for the same reason
// PrecomputeFootprint does: so bridge/waterway/tree processors see a
// complete graph from the first unit onward rather than one assembled
// piecemeal per-unit. It reuses highwayFootprint, the same rasterize-then-
// dilate geometry processHighway uses to paint its surface, so re-running
// processHighway per-unit during phase 5 adds nothing new to the graph.
func PrecomputeHighways(elements []osm.ProcessedElement) *HighwayConnectivity {
	hw := NewHighwayConnectivity()
	for _, el := range elements {
		if el.Category != osm.CategoryHighway {
			continue
		}
		cells, _, tag := highwayFootprint(el)
		for p := range cells {
			hw.Add(p, tag)
		}
	}
	return hw
}
