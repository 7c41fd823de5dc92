package process

import (
	"github.com/arnisgo/arnis/pkg/block"
	"github.com/arnisgo/arnis/pkg/coord"
	"github.com/arnisgo/arnis/pkg/osm"
)

// decorationDensity is how often (1-in-N cells) a scattered decoration
// (tallgrass, flower, tree) is placed across an area's interior.
const decorationDensity = 9

// processAreaDecoration resurfaces a landuse/natural/leisure/tourism
// polygon's interior and scatters a tag-appropriate decoration: trees for
// forest/wood, tallgrass and flowers for meadow/grass, and crop rows for
// farmland. It does not use the shared flood-fill cache (the
// polygon is only ever visited once per unit, so memoization buys
// nothing) but shares its scanline algorithm.
func processAreaDecoration(pc *Context, el osm.ProcessedElement) error {
	if len(el.Rings) == 0 || len(el.Rings[0]) < 3 {
		return nil
	}
	outer := el.Rings[0]
	holes := el.Rings[1:]

	tagValue, surface, matched := areaSurface(el.Tags)
	interior, err := scanlineFill(outer, holes, func() error { return nil })
	if err != nil {
		return err
	}

	for _, p := range interior {
		cellSurface := surface
		if !matched {
			cellSurface = groundSurfaceFor(el.Tags, pc, p.X, p.Z)
		}
		pc.World.SetBlock(cellSurface, p.X, 0, p.Z, nil, nil)
		placeAreaDecoration(pc, el, tagValue, p)
	}
	return nil
}

// areaSurface looks up a fixed surface block from the polygon's
// landuse/natural/leisure/tourism tag. matched is false when none of
// those keys resolved to a known block, signaling that the caller should
// fall back to the run's biome-aware ground surface per cell.
func areaSurface(tags map[string]string) (tagValue string, surface block.Block, matched bool) {
	for _, key := range []string{"landuse", "natural", "leisure", "tourism"} {
		if v, ok := tags[key]; ok {
			if b, ok := surfaceFor(v); ok {
				return v, b, true
			}
			return v, block.GrassBlock, false
		}
	}
	return "", block.GrassBlock, false
}

func placeAreaDecoration(pc *Context, el osm.ProcessedElement, tagValue string, p coord.Point) {
	switch tagValue {
	case "forest", "wood":
		rng := coordRNG(p.X, p.Z, el.ID)
		_, onHighway := pc.Highways.At(p)
		if rng.Intn(decorationDensity) == 0 && !pc.Footprint.Contains(p) && !onHighway {
			plantTree(pc, el.ID, nil, p)
		}
	case "meadow", "grass":
		rng := coordRNG(p.X, p.Z, el.ID)
		switch rng.Intn(decorationDensity * 2) {
		case 0:
			pc.World.SetBlock(block.New("tall_grass"), p.X, 1, p.Z, nil, nil)
		case 1:
			pc.World.SetBlock(block.New("poppy"), p.X, 1, p.Z, nil, nil)
		}
	case "farmland":
		if p.X%2 == 0 {
			pc.World.SetBlock(block.New("wheat"), p.X, 1, p.Z, nil, nil)
		}
	}
}
