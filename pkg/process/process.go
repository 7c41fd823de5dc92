package process

import (
	"context"
	"fmt"
	"time"

	"github.com/arnisgo/arnis/pkg/biome"
	"github.com/arnisgo/arnis/pkg/block"
	"github.com/arnisgo/arnis/pkg/coord"
	"github.com/arnisgo/arnis/pkg/osm"
	"github.com/arnisgo/arnis/pkg/store"
)

// Ground is the subset of the elevation subsystem processors need.
type Ground interface {
	Level(x, z int32) int32
}

// Options configures optional generator behavior.
type Options struct {
	Interior         bool          // flood-fill and light building interiors
	Roof             bool          // cap buildings with a roof layer
	FillGround       bool          // accepted for CLI-grammar compatibility; the ground layer itself always runs (see DESIGN.md)
	Debug            bool          // surface UnknownBlock and similar programmer-facing errors instead of degrading silently
	FloodFillTimeout time.Duration // zero means NewFloodFillCache's own default
}

// Context bundles everything one processing unit's pass over its
// elements shares: the local world store, the shared read-only globals
// built before the parallel phase, and a per-unit flood-fill cache.
// Biome is nil-safe:
// callers that don't need biome-aware ground fallback (tests included)
// leave it unset.
type Context struct {
	World     *store.World
	Ground    Ground
	Footprint *BuildingFootprintBitmap
	Highways  *HighwayConnectivity
	FloodFill *FloodFillCache
	Biome     *biome.Selector
	Options   Options
}

// Dispatch routes one element to its category's processor.
// Processor failure is non-fatal: the caller logs the error and the unit
// continues to the next element.
func Dispatch(ctx context.Context, pc *Context, el osm.ProcessedElement) error {
	switch el.Category {
	case osm.CategoryBuilding:
		return processBuilding(ctx, pc, el)
	case osm.CategoryHighway:
		return processHighway(pc, el)
	case osm.CategoryRailway, osm.CategoryBridge:
		return processRailwayOrBridge(pc, el)
	case osm.CategoryWaterway:
		return processWaterway(pc, el)
	case osm.CategoryWaterArea:
		return processWaterArea(ctx, pc, el)
	case osm.CategoryBarrier:
		return processBarrier(pc, el)
	case osm.CategoryLanduse, osm.CategoryNatural, osm.CategoryLeisure, osm.CategoryTourism:
		return processAreaDecoration(pc, el)
	case osm.CategoryTree:
		return processTree(pc, el)
	case osm.CategoryAmenity:
		return processAmenity(pc, el)
	case osm.CategoryDoor:
		return processDoor(pc, el)
	default:
		return fmt.Errorf("process: unhandled category %d for element %d", el.Category, el.ID)
	}
}

// groundSurfaceFor picks the surface block for a bare ground cell in
// the ground layer: an explicit natural tag wins, then a
// run's biome.Selector (if any), then plain grass.
func groundSurfaceFor(tags map[string]string, pc *Context, x, z int32) block.Block {
	if b, ok := surfaceFor(tags["natural"]); ok {
		return b
	}
	if pc != nil && pc.Biome != nil {
		return pc.Biome.SurfaceFor(x, z)
	}
	return block.GrassBlock
}

func centroid(ring []coord.Point) coord.Point {
	var sx, sz int64
	for _, p := range ring {
		sx += int64(p.X)
		sz += int64(p.Z)
	}
	n := int64(len(ring))
	if n == 0 {
		return coord.Point{}
	}
	return coord.Point{X: int32(sx / n), Z: int32(sz / n)}
}
