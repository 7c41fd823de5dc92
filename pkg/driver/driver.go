package driver

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/arnisgo/arnis/pkg/anvil"
	"github.com/arnisgo/arnis/pkg/biome"
	"github.com/arnisgo/arnis/pkg/coord"
	"github.com/arnisgo/arnis/pkg/ground"
	"github.com/arnisgo/arnis/pkg/osm"
	"github.com/arnisgo/arnis/pkg/process"
	"github.com/arnisgo/arnis/pkg/store"
)

// Generate runs the full six-phase pipeline for run over deps,
// writing region files under run.Options.WorldPath and draining progress
// events (best-effort) onto progress, which Generate never closes and
// never blocks sending to. It returns once every phase has completed or
// ctx is cancelled.
func Generate(ctx context.Context, run Run, deps Dependencies, logger zerolog.Logger, progress chan<- ProgressEvent) (RunSummary, error) {
	opts := run.Options
	runID := run.ID.String()
	logger = logger.With().Str("run_id", runID).Logger()

	worldBBox, scale, err := projectSelection(opts.GeoBBox, opts.UserScale)
	if err != nil {
		return RunSummary{}, err
	}

	// Phase 1: fetch & parse.
	emit(progress, ProgressEvent{RunID: runID, Percent: 0, Message: "fetching OSM data"})
	raw, err := deps.OSM.FetchOSM(ctx, opts.GeoBBox)
	if err != nil {
		return RunSummary{}, &osm.OsmFetchError{Cause: err}
	}

	logger.Info().
		Int32("width", worldBBox.Width()).Int32("height", worldBBox.Height()).
		Msg("parsing OSM elements")
	elements, err := osm.Parse(raw, opts.GeoBBox, worldBBox, scale)
	if err != nil {
		return RunSummary{}, err
	}
	emit(progress, ProgressEvent{RunID: runID, Percent: 10, Message: fmt.Sprintf("parsed %d elements", len(elements))})

	// Phase 2: transform & sort is folded into osm.Parse, which already
	// returns elements sorted by priority.

	// Phase 3: global pre-compute. Ground, the building-footprint bitmap,
	// and the highway connectivity graph are each built once here, over
	// every element in the run, and held immutably for the rest of
	// Generate: every unit in phase 5 reads the same three structures
	// rather than rebuilding its own from its buffered subset.
	emit(progress, ProgressEvent{RunID: runID, Percent: 15, Message: "building ground model"})
	groundModel, groundWarning := buildGround(ctx, opts, deps.Tiles, worldBBox)
	if groundWarning != nil {
		logger.Warn().Err(groundWarning).Msg("elevation degraded to flat")
	}

	footprint, err := process.PrecomputeFootprint(ctx, elements)
	if err != nil {
		return RunSummary{}, err
	}
	highways := process.PrecomputeHighways(elements)

	biomeSel := biome.NewSelector(biomeSeed(opts))

	// Phase 4: unit planning.
	units := planUnits(worldBBox, elements)
	logger.Info().Int("units", len(units)).Msg("planned processing units")
	emit(progress, ProgressEvent{RunID: runID, Percent: 25, Message: fmt.Sprintf("planned %d regions", len(units))})

	existingLevelDat, isNewWorld, err := deps.WorldDir.Prepare(ctx, opts.WorldPath)
	if err != nil {
		return RunSummary{}, fmt.Errorf("driver: prepare world dir: %w", err)
	}

	// Phase 5: parallel execution.
	rdeps := runDeps{
		run: run, ground: groundModel, biomeSel: biomeSel,
		footprint: footprint, highways: highways,
		worldDir: opts.WorldPath, logger: logger, progress: progress,
	}
	summary, err := runUnits(ctx, units, rdeps, opts.Workers)
	if err != nil {
		return summary, err
	}

	// Phase 6: finalize.
	emit(progress, ProgressEvent{RunID: runID, Percent: 95, Message: "writing level.dat"})
	patched, err := anvil.PatchLevelDat(existingLevelDat, opts.Spawn, worldBBox, opts.BaseY, isNewWorld)
	if err != nil {
		return summary, fmt.Errorf("driver: patch level.dat: %w", err)
	}
	if err := writeLevelDat(opts.WorldPath, patched); err != nil {
		return summary, err
	}

	if img, err := renderPreview(units, worldBBox); err != nil {
		logger.Warn().Err(err).Msg("preview render failed")
	} else if err := writePreview(opts.WorldPath, img); err != nil {
		logger.Warn().Err(err).Msg("preview write failed")
	}

	emit(progress, ProgressEvent{RunID: runID, Percent: 100, Message: "done"})
	logger.Info().
		Int("regions_written", summary.RegionsWritten).
		Int("warnings", len(summary.Warnings)).
		Int("errors", len(summary.Errors)).
		Msg("generation complete")
	return summary, nil
}

// projectSelection derives the world bbox and scale for opts.GeoBBox:
// one block is nominally one meter at
// UserScale == 1.0, so the world's block extent is the geographic edge
// length (in meters) divided by the zoom factor.
func projectSelection(geoBBox coord.GeoBBox, userScale float64) (coord.BBox, coord.Scale, error) {
	if geoBBox.MinLon >= geoBBox.MaxLon || geoBBox.MinLat >= geoBBox.MaxLat {
		return coord.BBox{}, coord.Scale{}, &InvalidBBox{Cause: coord.ErrInvalidBBox}
	}
	if userScale <= 0 {
		userScale = 1.0
	}
	xMeters, zMeters := geoBBox.EdgeMeters()
	blocksX := int32(math.Round(xMeters / userScale))
	blocksZ := int32(math.Round(zMeters / userScale))
	if blocksX < 1 {
		blocksX = 1
	}
	if blocksZ < 1 {
		blocksZ = 1
	}
	worldBBox, err := coord.NewBBoxFromSize(coord.Point{}, blocksX, blocksZ)
	if err != nil {
		return coord.BBox{}, coord.Scale{}, &InvalidBBox{Cause: err}
	}
	scale := coord.DeriveScale(geoBBox, userScale, blocksX, blocksZ)
	return worldBBox, scale, nil
}

// buildGround resolves the run's GroundLevel model: Disabled at a flat
// BaseY when terrain is off, otherwise ground.New's interpolated grid.
func buildGround(ctx context.Context, opts Options, tiles ground.TileFetcher, worldBBox coord.BBox) (store.GroundLevel, error) {
	if !opts.Terrain || tiles == nil {
		return ground.Disabled(opts.BaseY), nil
	}
	return ground.New(ctx, tiles, opts.GeoBBox, worldBBox, opts.UserScale, opts.BaseY)
}

// biomeSeed derives a deterministic biome.Selector seed from the run's
// geographic bbox (falling back to the explicit BiomeSeed override) so
// repeated runs over the same area always agree.
func biomeSeed(opts Options) int64 {
	if opts.BiomeSeed != 0 {
		return opts.BiomeSeed
	}
	bits := math.Float64bits(opts.GeoBBox.MinLon) ^ math.Float64bits(opts.GeoBBox.MinLat)<<1 ^
		math.Float64bits(opts.GeoBBox.MaxLon)<<2 ^ math.Float64bits(opts.GeoBBox.MaxLat)<<3
	return int64(bits)
}
