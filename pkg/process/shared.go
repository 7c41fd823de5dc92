package process

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/arnisgo/arnis/pkg/coord"
)

// FloodFillTimeout is reported when a single element's interior flood-fill
// exceeds its wall-clock budget.
type FloodFillTimeout struct{ ElementID int64 }

func (e *FloodFillTimeout) Error() string {
	return fmt.Sprintf("flood fill timed out for element %d", e.ElementID)
}

// DefaultFloodFillTimeout is the per-element flood-fill wall-clock budget.
const DefaultFloodFillTimeout = 20 * time.Second

// BuildingFootprintBitmap is the shared set of world-XZ cells any building
// polygon covers, built once globally before the parallel phase by walking every
// building element (not just the ones a given unit buffers) so the bitmap
// reflects the whole run before any unit starts writing blocks. The tree
// processor consults it to skip tree bases that fall inside a building.
// phase 3's build pass runs single-threaded, but phase 5's building
// processor still calls Mark redundantly as it writes each unit's own
// blocks (the precomputed cells are already there), so the map is guarded
// by a mutex rather than assumed single-writer.
type BuildingFootprintBitmap struct {
	mu    sync.Mutex
	cells map[coord.Point]struct{}
}

// NewBuildingFootprintBitmap creates an empty bitmap.
func NewBuildingFootprintBitmap() *BuildingFootprintBitmap {
	return &BuildingFootprintBitmap{cells: make(map[coord.Point]struct{})}
}

// Mark records that a building occupies cell p.
func (b *BuildingFootprintBitmap) Mark(p coord.Point) {
	b.mu.Lock()
	b.cells[p] = struct{}{}
	b.mu.Unlock()
}

// Contains reports whether p falls inside any building footprint.
func (b *BuildingFootprintBitmap) Contains(p coord.Point) bool {
	b.mu.Lock()
	_, ok := b.cells[p]
	b.mu.Unlock()
	return ok
}

// HighwayConnectivity is the shared graph of cells a highway's rasterized,
// dilated footprint covers, built once globally before the parallel phase by walking
// every highway element so bridge/waterway/tree processors can resolve
// crossings and keep trees off paved cells from the very first unit that
// runs, not just units that happen to process a road themselves. phase 3's
// build pass runs single-threaded, but phase 5's highway processor still
// calls Add redundantly as it writes each unit's own blocks, so the map is
// guarded by a mutex rather than assumed single-writer.
type HighwayConnectivity struct {
	mu       sync.Mutex
	segments map[coord.Point]string // cell -> highway tag value at that cell
}

// NewHighwayConnectivity creates an empty connectivity graph.
func NewHighwayConnectivity() *HighwayConnectivity {
	return &HighwayConnectivity{segments: make(map[coord.Point]string)}
}

// Add records that the highway tagged kind passes through cell p.
func (h *HighwayConnectivity) Add(p coord.Point, kind string) {
	h.mu.Lock()
	h.segments[p] = kind
	h.mu.Unlock()
}

// At returns the highway tag at cell p, if any.
func (h *HighwayConnectivity) At(p coord.Point) (string, bool) {
	h.mu.Lock()
	k, ok := h.segments[p]
	h.mu.Unlock()
	return k, ok
}

// FloodFillCache memoizes the interior cell set of closed ways so repeated
// lookups (e.g. a building's floor-fill followed by its light placement
// pass) don't re-scan the polygon's "local
// FloodFillCache".
type FloodFillCache struct {
	cache   map[int64][]coord.Point
	timeout time.Duration
}

// NewFloodFillCache creates an empty, per-unit cache. timeout overrides the
// per-element wall-clock budget (DefaultFloodFillTimeout otherwise), letting
// the --floodfill-timeout CLI flag reach this cache without breaking
// existing zero-arg callers.
func NewFloodFillCache(timeout ...time.Duration) *FloodFillCache {
	t := DefaultFloodFillTimeout
	if len(timeout) > 0 && timeout[0] > 0 {
		t = timeout[0]
	}
	return &FloodFillCache{cache: make(map[int64][]coord.Point), timeout: t}
}

// Fill returns the interior cells of ring (a closed polygon boundary),
// computing and caching them on first request. ctx is polled periodically
// against the cache's configured timeout; on expiry it returns a
// *FloodFillTimeout and no partial result.
func (c *FloodFillCache) Fill(ctx context.Context, elementID int64, ring []coord.Point, holes [][]coord.Point) ([]coord.Point, error) {
	if cells, ok := c.cache[elementID]; ok {
		return cells, nil
	}

	deadline := time.Now().Add(c.timeout)
	cells, err := scanlineFill(ring, holes, func() error {
		if time.Now().After(deadline) {
			return &FloodFillTimeout{ElementID: elementID}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	})
	if err != nil {
		return nil, err
	}
	c.cache[elementID] = cells
	return cells, nil
}

// scanlineFill computes the interior cells of a polygon (outer ring minus
// any hole rings) via the standard even-odd scanline algorithm. poll is
// invoked once per scanline so long-running fills can be cancelled.
func scanlineFill(ring []coord.Point, holes [][]coord.Point, poll func() error) ([]coord.Point, error) {
	if len(ring) < 3 {
		return nil, nil
	}
	minZ, maxZ := ring[0].Z, ring[0].Z
	for _, p := range ring {
		if p.Z < minZ {
			minZ = p.Z
		}
		if p.Z > maxZ {
			maxZ = p.Z
		}
	}

	var out []coord.Point
	for z := minZ; z <= maxZ; z++ {
		if err := poll(); err != nil {
			return nil, err
		}
		xs := scanlineCrossings(ring, z)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := xs[i]; x <= xs[i+1]; x++ {
				p := coord.Point{X: x, Z: z}
				if inAnyHole(holes, p) {
					continue
				}
				out = append(out, p)
			}
		}
	}
	return out, nil
}

// scanlineCrossings returns the sorted X crossings of ring at row z.
func scanlineCrossings(ring []coord.Point, z int32) []int32 {
	var xs []int32
	n := len(ring)
	for i := 0; i < n; i++ {
		a, b := ring[i], ring[(i+1)%n]
		if a.Z == b.Z {
			continue
		}
		lo, hi := a, b
		if lo.Z > hi.Z {
			lo, hi = hi, lo
		}
		if z < lo.Z || z >= hi.Z {
			continue
		}
		t := float64(z-lo.Z) / float64(hi.Z-lo.Z)
		x := float64(lo.X) + t*float64(hi.X-lo.X)
		xs = append(xs, int32(x))
	}
	insertionSortInt32(xs)
	return xs
}

func inAnyHole(holes [][]coord.Point, p coord.Point) bool {
	for _, h := range holes {
		if pointInRing(h, p) {
			return true
		}
	}
	return false
}

func pointInRing(ring []coord.Point, p coord.Point) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.Z > p.Z) != (b.Z > p.Z) {
			t := float64(p.Z-a.Z) / float64(b.Z-a.Z)
			x := float64(a.X) + t*float64(b.X-a.X)
			if float64(p.X) < x {
				inside = !inside
			}
		}
	}
	return inside
}

func insertionSortInt32(xs []int32) {
	for i := 1; i < len(xs); i++ {
		v := xs[i]
		j := i - 1
		for j >= 0 && xs[j] > v {
			xs[j+1] = xs[j]
			j--
		}
		xs[j+1] = v
	}
}
