// Package ground implements the elevation subsystem: it turns an
// optional raster elevation tile source into a Minecraft Y-level grid
// covering the selection, or falls back to a flat base level.
package ground

import (
	"context"
	"math"

	"github.com/arnisgo/arnis/pkg/coord"
)

// TileFetcher is the elevation-tile collaborator contract: given a
// zoom level and tile coordinates, it yields decoded RGB pixel bytes (3
// bytes per pixel, row-major) for that tile, or an error if the tile is
// unavailable. A missing tile is not fatal to the caller.
type TileFetcher interface {
	FetchTile(ctx context.Context, zoom, tileX, tileY int) (rgb []byte, tileSize int, err error)
}

// MinZoom and MaxZoom bound the elevation zoom-level search.
const (
	MinZoom        = 10
	MaxZoom        = 15
	maxTileBudget  = 64 // fixed tile-count budget used to pick a zoom level
	gaussianSigma  = 1.5
)

// Ground resolves a Minecraft Y-level for any XZ position inside the
// selection.
type Ground struct {
	enabled bool
	baseY   int32
	bbox    coord.BBox
	grid    *heightGrid
	minY    int32
	maxY    int32
}

// heightGrid is a dense 2D array of interpolated Y-levels, one per world
// block column inside the bbox.
type heightGrid struct {
	minX, minZ int32
	width, depth int32
	values     []int32
}

func (g *heightGrid) at(x, z int32) int32 {
	lx := x - g.minX
	lz := z - g.minZ
	if lx < 0 {
		lx = 0
	}
	if lz < 0 {
		lz = 0
	}
	if lx >= g.width {
		lx = g.width - 1
	}
	if lz >= g.depth {
		lz = g.depth - 1
	}
	return g.values[lz*g.width+lx]
}

// Disabled returns a Ground that always resolves to baseY.
func Disabled(baseY int32) *Ground {
	return &Ground{enabled: false, baseY: baseY, minY: baseY, maxY: baseY}
}

// New builds an enabled Ground by fetching and interpolating elevation
// tiles covering bbox (in world XZ, already scaled) using the provided
// geo bbox for tile selection, scale, and base Y. Any failure to fetch a
// single tile is tolerated (missing cells get neighbor-interpolated); a
// total fetch failure degrades to Disabled; callers should log the
// returned warning themselves.
func New(ctx context.Context, fetcher TileFetcher, geoBBox coord.GeoBBox, worldBBox coord.BBox, userScale float64, baseY int32) (*Ground, error) {
	width := worldBBox.Width() + 1
	depth := worldBBox.Height() + 1

	zoom := chooseZoom(geoBBox)
	raw, ok, err := fetchHeights(ctx, fetcher, geoBBox, worldBBox, zoom)
	if !ok {
		if err != nil {
			err = &ElevationUnavailable{Cause: err}
		}
		return Disabled(baseY), err
	}

	interpolateMissing(raw, width, depth)
	blurred := gaussianBlur2D(raw, width, depth, gaussianSigma)

	hMin, hMax := minMax(blurred)
	scaledRange := 0.4 * math.Sqrt(userScale) * float64(coord.YMax-baseY)

	grid := &heightGrid{
		minX: worldBBox.MinX, minZ: worldBBox.MinZ,
		width: width, depth: depth,
		values: make([]int32, len(blurred)),
	}
	var gridMin, gridMax int32 = coord.YMax, coord.YMin
	for i, h := range blurred {
		var y int32
		if hMax > hMin {
			y = baseY + int32(math.Round((h-hMin)/(hMax-hMin)*scaledRange))
		} else {
			y = baseY
		}
		if y < baseY {
			y = baseY
		}
		if y > coord.YMax {
			y = coord.YMax
		}
		grid.values[i] = y
		if y < gridMin {
			gridMin = y
		}
		if y > gridMax {
			gridMax = y
		}
	}

	return &Ground{
		enabled: true,
		baseY:   baseY,
		bbox:    worldBBox,
		grid:    grid,
		minY:    gridMin,
		maxY:    gridMax,
	}, nil
}

// Level returns the Y-level at world position (x, z).
func (g *Ground) Level(x, z int32) int32 {
	if !g.enabled || g.grid == nil {
		return g.baseY
	}
	return g.grid.at(x, z)
}

// MinLevel returns the lowest Y-level anywhere in the selection.
func (g *Ground) MinLevel() int32 {
	if !g.enabled {
		return g.baseY
	}
	return g.minY
}

// MaxLevel returns the highest Y-level anywhere in the selection.
func (g *Ground) MaxLevel() int32 {
	if !g.enabled {
		return g.baseY
	}
	return g.maxY
}

// Enabled reports whether terrain elevation is active.
func (g *Ground) Enabled() bool { return g.enabled }

// decodeHeight converts a raw RGB triple to meters:
// h = -10000 + (R*65536 + G*256 + B) * 0.1
func decodeHeight(r, gByte, b byte) float64 {
	combined := int(r)*65536 + int(gByte)*256 + int(b)
	return -10000 + float64(combined)*0.1
}

func minMax(vals []float64) (min, max float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	min, max = vals[0], vals[0]
	for _, v := range vals {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
