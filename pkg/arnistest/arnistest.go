// Package arnistest provides fixture implementations of the driver
// package's three external collaborator contracts, for tests that
// want to drive the pipeline without a network or a real world
// directory.
package arnistest

import (
	"context"
	"errors"
	"os"

	"github.com/arnisgo/arnis/pkg/coord"
)

// StaticOSMFetcher returns a fixed OSM document regardless of the
// requested bbox, for tests that only care about one canned document.
type StaticOSMFetcher struct {
	Body []byte
	Err  error
}

func (f StaticOSMFetcher) FetchOSM(ctx context.Context, bbox coord.GeoBBox) ([]byte, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Body, nil
}

// FlatTileFetcher returns a uniform-height tile for every request, encoded
// the way the ground package decodes tiles (R/G/B triples decoding to a
// fixed height via the Terrain-RGB formula). Tests that want terrain variation
// should build their own fetcher instead.
type FlatTileFetcher struct {
	// HeightMeters is the constant height every pixel decodes to.
	HeightMeters float64
	TileSize     int
}

func (f FlatTileFetcher) FetchTile(ctx context.Context, zoom, tileX, tileY int) ([]byte, int, error) {
	size := f.TileSize
	if size == 0 {
		size = 16
	}
	combined := int64((f.HeightMeters + 10000) / 0.1)
	r := byte((combined / 65536) % 256)
	g := byte((combined / 256) % 256)
	b := byte(combined % 256)
	rgb := make([]byte, size*size*3)
	for i := 0; i < size*size; i++ {
		rgb[i*3] = r
		rgb[i*3+1] = g
		rgb[i*3+2] = b
	}
	return rgb, size, nil
}

// FailingTileFetcher always errors, for exercising ground's
// all-tiles-failed degrade-to-disabled path.
type FailingTileFetcher struct{ Err error }

func (f FailingTileFetcher) FetchTile(ctx context.Context, zoom, tileX, tileY int) ([]byte, int, error) {
	err := f.Err
	if err == nil {
		err = errors.New("arnistest: tile fetch always fails")
	}
	return nil, 0, err
}

// TempWorldDir is a WorldDirProvider backed by a real temporary directory
// on disk, for tests that exercise the full Anvil write path. Callers are
// responsible for removing Path when done (e.g. via t.TempDir(), which
// this fixture is typically pointed at).
type TempWorldDir struct {
	Path string
}

func (d TempWorldDir) Prepare(ctx context.Context, path string) ([]byte, bool, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(path + "/level.dat")
	if errors.Is(err, os.ErrNotExist) {
		return nil, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, false, nil
}
