package driver

import (
	"context"

	"github.com/arnisgo/arnis/pkg/coord"
	"github.com/arnisgo/arnis/pkg/ground"
)

// OSMFetcher is the OSM data collaborator contract: given the
// user's geographic bbox, it returns the raw Overpass-style JSON document
// covering it.
type OSMFetcher interface {
	FetchOSM(ctx context.Context, bbox coord.GeoBBox) ([]byte, error)
}

// WorldDirProvider is the world-folder collaborator contract: it
// resolves the save directory to write into and hands back any existing
// level.dat bytes so PatchLevelDat can merge into it rather than
// overwrite it.
type WorldDirProvider interface {
	// Prepare ensures path exists (creating it if this is a new world)
	// and returns any existing level.dat bytes (nil if none).
	Prepare(ctx context.Context, path string) (existingLevelDat []byte, isNewWorld bool, err error)
}

// TileFetcher re-exports the ground package's elevation-tile collaborator
// so callers only need to import pkg/driver to wire all three
// collaborator contracts.
type TileFetcher = ground.TileFetcher

// Dependencies bundles the three external collaborators a run needs.
// Tiles may be nil when Options.Terrain is false.
type Dependencies struct {
	OSM      OSMFetcher
	Tiles    TileFetcher
	WorldDir WorldDirProvider
}
