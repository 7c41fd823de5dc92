package ground

import (
	"context"
	"math"

	"github.com/arnisgo/arnis/pkg/coord"
)

// chooseZoom picks the smallest zoom in [MinZoom, MaxZoom] such that the
// number of slippy-map tiles covering geoBBox fits within a fixed budget.
func chooseZoom(geoBBox coord.GeoBBox) int {
	for z := MinZoom; z <= MaxZoom; z++ {
		minTX, minTY := lonLatToTileXY(geoBBox.MinLon, geoBBox.MaxLat, z)
		maxTX, maxTY := lonLatToTileXY(geoBBox.MaxLon, geoBBox.MinLat, z)
		count := (maxTX - minTX + 1) * (maxTY - minTY + 1)
		if count <= maxTileBudget {
			return z
		}
	}
	return MinZoom
}

// lonLatToTileXY converts a geographic point to its slippy-map tile
// coordinates at the given zoom (standard Web Mercator tiling scheme).
func lonLatToTileXY(lon, lat float64, zoom int) (tx, ty int) {
	n := math.Exp2(float64(zoom))
	tx = int((lon + 180.0) / 360.0 * n)
	latRad := lat * math.Pi / 180.0
	ty = int((1.0 - math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi) / 2.0 * n)
	return tx, ty
}

// mosaic is a stitched-together rectangle of decoded tile heights covering
// the tile range needed for a geo bbox at a fixed zoom.
type mosaic struct {
	minTX, minTY int
	tilesX, tilesY int
	tileSize     int
	heights      []float64 // tilesX*tileSize wide, tilesY*tileSize tall
	present      []bool
}

func (m *mosaic) widthPx() int  { return m.tilesX * m.tileSize }
func (m *mosaic) heightPx() int { return m.tilesY * m.tileSize }

func (m *mosaic) set(px, py int, h float64) {
	m.heights[py*m.widthPx()+px] = h
	m.present[py*m.widthPx()+px] = true
}

func (m *mosaic) sample(px, py int) (float64, bool) {
	w, h := m.widthPx(), m.heightPx()
	if px < 0 {
		px = 0
	}
	if py < 0 {
		py = 0
	}
	if px >= w {
		px = w - 1
	}
	if py >= h {
		py = h - 1
	}
	i := py*w + px
	return m.heights[i], m.present[i]
}

// fetchHeights fetches every tile covering geoBBox at zoom, decodes it into
// a mosaic, and nearest-neighbor-samples the mosaic onto the world grid
// defined by worldBBox. ok is false only if every tile fetch failed;
// the caller then degrades to disabled mode.
func fetchHeights(ctx context.Context, fetcher TileFetcher, geoBBox coord.GeoBBox, worldBBox coord.BBox, zoom int) (raw []float64, ok bool, warning error) {
	minTX, minTY := lonLatToTileXY(geoBBox.MinLon, geoBBox.MaxLat, zoom)
	maxTX, maxTY := lonLatToTileXY(geoBBox.MaxLon, geoBBox.MinLat, zoom)
	if minTX > maxTX {
		minTX, maxTX = maxTX, minTX
	}
	if minTY > maxTY {
		minTY, maxTY = maxTY, minTY
	}

	tileSize := 256
	m := &mosaic{
		minTX: minTX, minTY: minTY,
		tilesX: maxTX - minTX + 1, tilesY: maxTY - minTY + 1,
		tileSize: tileSize,
	}
	m.heights = make([]float64, m.widthPx()*m.heightPx())
	m.present = make([]bool, m.widthPx()*m.heightPx())

	var lastErr error
	fetchedAny := false
	for ty := minTY; ty <= maxTY; ty++ {
		for tx := minTX; tx <= maxTX; tx++ {
			rgb, size, err := fetcher.FetchTile(ctx, zoom, tx, ty)
			if err != nil {
				lastErr = err
				continue
			}
			if size != m.tileSize {
				m.tileSize = size
			}
			fetchedAny = true
			ox := (tx - minTX) * size
			oy := (ty - minTY) * size
			for py := 0; py < size; py++ {
				for px := 0; px < size; px++ {
					o := (py*size + px) * 3
					if o+2 >= len(rgb) {
						continue
					}
					h := decodeHeight(rgb[o], rgb[o+1], rgb[o+2])
					m.set(ox+px, oy+py, h)
				}
			}
		}
	}
	if !fetchedAny {
		return nil, false, lastErr
	}

	width := worldBBox.Width() + 1
	depth := worldBBox.Height() + 1
	out := make([]float64, width*depth)
	present := make([]bool, width*depth)

	n := math.Exp2(float64(zoom))

	for lz := int32(0); lz < depth; lz++ {
		for lx := int32(0); lx < width; lx++ {
			fracX := float64(lx) / float64(max32(width-1, 1))
			fracZ := float64(lz) / float64(max32(depth-1, 1))
			lon := geoBBox.MinLon + fracX*(geoBBox.MaxLon-geoBBox.MinLon)
			lat := geoBBox.MaxLat - fracZ*(geoBBox.MaxLat-geoBBox.MinLat)

			px := int((lon+180.0)/360.0*n*float64(m.tileSize)) - minTX*m.tileSize
			latRad := lat * math.Pi / 180.0
			py := int((1.0-math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi)/2.0*n*float64(m.tileSize)) - minTY*m.tileSize

			h, ok := m.sample(px, py)
			idx := lz*width + lx
			out[idx] = h
			present[idx] = ok
		}
	}

	// Mark missing cells with NaN so interpolateMissing can find them.
	for i, ok := range present {
		if !ok {
			out[i] = math.NaN()
		}
	}
	return out, true, lastErr
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// interpolateMissing fills NaN cells in a width x depth grid with the
// average of their present orthogonal neighbors, repeating until no NaNs
// remain reachable (isolated all-NaN grids are left as zero).
func interpolateMissing(grid []float64, width, depth int32) {
	for {
		changed := false
		for z := int32(0); z < depth; z++ {
			for x := int32(0); x < width; x++ {
				i := z*width + x
				if !math.IsNaN(grid[i]) {
					continue
				}
				var sum float64
				var count int
				tryNeighbor := func(nx, nz int32) {
					if nx < 0 || nz < 0 || nx >= width || nz >= depth {
						return
					}
					v := grid[nz*width+nx]
					if !math.IsNaN(v) {
						sum += v
						count++
					}
				}
				tryNeighbor(x-1, z)
				tryNeighbor(x+1, z)
				tryNeighbor(x, z-1)
				tryNeighbor(x, z+1)
				if count > 0 {
					grid[i] = sum / float64(count)
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
	for i, v := range grid {
		if math.IsNaN(v) {
			grid[i] = 0
		}
	}
}
