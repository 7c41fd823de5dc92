package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/arnisgo/arnis/pkg/anvil"
	"github.com/arnisgo/arnis/pkg/biome"
	"github.com/arnisgo/arnis/pkg/block"
	"github.com/arnisgo/arnis/pkg/coord"
	"github.com/arnisgo/arnis/pkg/process"
	"github.com/arnisgo/arnis/pkg/store"
)

// runDeps bundles the immutable, shared state every unit's goroutine
// reads but never mutates: the ground model, the building-footprint bitmap
// and highway connectivity graph built once in phase 3, the run's biome
// selector, and the fixed options driving each unit's process.Context.
type runDeps struct {
	run       Run
	ground    store.GroundLevel
	footprint *process.BuildingFootprintBitmap
	highways  *process.HighwayConnectivity
	biomeSel  *biome.Selector
	worldDir  string
	logger    zerolog.Logger
	progress  chan<- ProgressEvent
}

// runUnits schedules one goroutine per unit via errgroup, fork-join with
// first-error propagation that still lets every unit finish:
// a unit's own write failure is collected into the shared summary rather
// than returned to the errgroup, so it never cancels its peers. Only the
// caller's own ctx cancellation, or a debug-mode UnknownBlock (a
// programmer-facing bug, not a per-unit data failure), stops the
// group early, surfaced to still-running units as gctx.Err().
func runUnits(ctx context.Context, units []*unit, deps runDeps, workers int) (RunSummary, error) {
	if workers <= 0 {
		workers = newWorkerLimit()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	summary := RunSummary{}
	total := len(units)
	var done int

	for _, u := range units {
		u := u
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			warn, err := runUnit(gctx, u, deps)

			mu.Lock()
			if warn != nil {
				summary.Warnings = append(summary.Warnings, warn)
			}
			if err != nil {
				summary.Errors = append(summary.Errors, err)
			} else {
				summary.RegionsWritten++
			}
			done++
			pct := 30 + 60*float64(done)/float64(total)
			emit(deps.progress, ProgressEvent{
				RunID: deps.run.ID.String(), Percent: pct,
				Message: fmt.Sprintf("region %d,%d done (%d/%d)", u.region.X, u.region.Z, done, total),
			})
			mu.Unlock()

			var unknown *block.UnknownBlock
			if errors.As(err, &unknown) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var unknown *block.UnknownBlock
		if errors.As(err, &unknown) {
			return summary, err
		}
		return summary, &Cancelled{Cause: err}
	}
	return summary, nil
}

// runUnit rasterizes one unit's elements into its own World, lays its
// ground-layer columns, and flushes the result to its single Anvil
// region.
func runUnit(ctx context.Context, u *unit, deps runDeps) (warning, err error) {
	world := store.NewWorld(u.bbox, deps.ground)
	pc := &process.Context{
		World:     world,
		Ground:    deps.ground,
		Footprint: deps.footprint,
		Highways:  deps.highways,
		FloodFill: process.NewFloodFillCache(deps.run.Options.FloodFillTimeout),
		Biome:     deps.biomeSel,
		Options:   deps.run.Options.Options,
	}

	for _, el := range u.elements {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if procErr := process.Dispatch(ctx, pc, el); procErr != nil {
			var unknown *block.UnknownBlock
			if pc.Options.Debug && errors.As(procErr, &unknown) {
				return nil, procErr
			}
			deps.logger.Warn().
				Str("run_id", deps.run.ID.String()).
				Int64("element_id", el.ID).
				Err(procErr).
				Msg("element processor failed")
		}
	}

	layGround(pc, u.bbox)

	region := world.Region(u.region)
	warn, err := anvil.WriteRegion(deps.worldDir, u.region, region, deps.run.Options.BaseY, deps.biomeSel)
	if warn != nil {
		deps.logger.Warn().
			Str("run_id", deps.run.ID.String()).
			Int32("region_x", u.region.X).Int32("region_z", u.region.Z).
			Err(warn).
			Msg("region read warning")
	}
	return warn, err
}

// layGround fills every column in bbox with a bedrock floor, a stone
// body, a dirt cap, and a biome-appropriate surface block, skipping any
// cell a processor already claimed's ground layer step.
// The default write policy (nil whitelist, nil blacklist) already refuses
// to overwrite a non-air block, so no explicit blacklist is needed here.
func layGround(pc *process.Context, bbox coord.BBox) {
	for x := bbox.MinX; x <= bbox.MaxX; x++ {
		for z := bbox.MinZ; z <= bbox.MaxZ; z++ {
			groundY := pc.World.GetAbsoluteY(x, 0, z)
			pc.World.SetBlockAbsolute(block.Bedrock, x, coord.YMin, z, nil, nil)
			pc.World.FillBlocksAbsolute(block.Stone, x, coord.YMin+1, z, x, groundY-3, z, nil, nil)
			pc.World.FillBlocksAbsolute(block.Dirt, x, groundY-2, z, x, groundY-1, z, nil, nil)
			pc.World.SetBlockAbsolute(groundSurfaceAt(pc, x, z), x, groundY, z, nil, nil)
		}
	}
}

// groundSurfaceAt picks the ground layer's surface block for (x, z): the
// run's biome if one is configured, otherwise plain grass.
func groundSurfaceAt(pc *process.Context, x, z int32) block.Block {
	if pc.Biome != nil {
		return pc.Biome.SurfaceFor(x, z)
	}
	return block.GrassBlock
}

// newWorkerLimit is the default processing-unit concurrency cap: one
// short of every logical CPU, leaving headroom for the OS and the
// progress/logging goroutines model.
func newWorkerLimit() int {
	if n := runtime.NumCPU() - 1; n > 0 {
		return n
	}
	return 1
}
