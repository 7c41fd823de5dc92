// Package driver composes the coordinate, ground, OSM, store, and process
// packages into the end-to-end generation pipeline: fetch and
// parse, global pre-compute, per-region unit planning, parallel
// rasterization, and save finalization.
package driver

import (
	"time"

	"github.com/google/uuid"

	"github.com/arnisgo/arnis/pkg/anvil"
	"github.com/arnisgo/arnis/pkg/coord"
	"github.com/arnisgo/arnis/pkg/process"
)

// Options configures one generation run-6.5. It is the CLI
// layer's binding target: every field here except BiomeSeed is set from
// a flag defined in internal/cli.
type Options struct {
	// WorldPath is the Minecraft world save directory to write into
	// (created if absent).
	WorldPath string

	// GeoBBox is the user-selected geographic area.
	GeoBBox coord.GeoBBox

	// UserScale is the zoom factor fed to coord.DeriveScale; 1.0 means one
	// block per meter.
	UserScale float64

	// BaseY is the flat ground Y level used when terrain is disabled, and
	// the floor terrain elevation is scaled around when it's enabled.
	BaseY int32

	// Terrain enables the ground/elevation subsystem. When false the
	// selection is generated on a flat plane at BaseY.
	Terrain bool

	process.Options

	// Spawn, if set, is written into level.dat's spawn point, clamped to
	// the selection bbox.
	Spawn *anvil.SpawnPoint

	// Workers caps concurrent region units; zero means the runtime's own
	// default (see newWorkerLimit).
	Workers int

	// BiomeSeed reseeds the run's biome.Selector. Zero means derive it
	// from GeoBBox so repeated runs over the same area agree
	// determinism requirement.
	BiomeSeed int64
}

// Run identifies one invocation of the driver: a run id used to correlate
// log lines and progress events across phases and processing units, the
// resolved Options, and a start timestamp.
type Run struct {
	ID        uuid.UUID
	Options   Options
	StartedAt time.Time
}

// NewRun stamps a fresh run id for opts. startedAt is supplied by the
// caller (e.g. the CLI's runGenerate, via time.Now()) so this package never calls
// the wall clock itself.
func NewRun(opts Options, startedAt time.Time) Run {
	return Run{ID: uuid.New(), Options: opts, StartedAt: startedAt}
}
