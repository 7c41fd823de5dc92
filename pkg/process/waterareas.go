package process

import (
	"context"

	"github.com/arnisgo/arnis/pkg/block"
	"github.com/arnisgo/arnis/pkg/osm"
)

// processWaterArea floods the interior of a water polygon (lake, riverbank,
// reservoir) with water at ground level over a two-deep dirt/gravel bed,
// using the shared flood-fill cache so a repeated lookup against
// the same element never re-scans the polygon.
func processWaterArea(ctx context.Context, pc *Context, el osm.ProcessedElement) error {
	if len(el.Rings) == 0 || len(el.Rings[0]) < 3 {
		return nil
	}
	outer := el.Rings[0]
	holes := el.Rings[1:]

	interior, err := pc.FloodFill.Fill(ctx, el.ID, outer, holes)
	if err != nil {
		return err
	}
	for _, p := range interior {
		pc.World.SetBlock(block.Water, p.X, 0, p.Z, nil, nil)
		pc.World.SetBlock(block.Dirt, p.X, -1, p.Z, nil, nil)
		pc.World.SetBlock(block.Gravel, p.X, -2, p.Z, nil, nil)
	}
	return nil
}
