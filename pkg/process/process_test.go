package process

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnisgo/arnis/pkg/block"
	"github.com/arnisgo/arnis/pkg/coord"
	"github.com/arnisgo/arnis/pkg/ground"
	"github.com/arnisgo/arnis/pkg/osm"
	"github.com/arnisgo/arnis/pkg/store"
)

func newTestContext(t *testing.T) *Context {
	t.Helper()
	bbox := coord.NewBBox(coord.Point{X: -64, Z: -64}, coord.Point{X: 64, Z: 64})
	w := store.NewWorld(bbox, store.FlatGround(64))
	return &Context{
		World:     w,
		Footprint: NewBuildingFootprintBitmap(),
		Highways:  NewHighwayConnectivity(),
		FloodFill: NewFloodFillCache(),
		Ground:    ground.Disabled(64),
	}
}

func TestProcessBuildingRasterizesWallsAndFloor(t *testing.T) {
	pc := newTestContext(t)
	el := osm.ProcessedElement{
		ID:       1,
		Category: osm.CategoryBuilding,
		Geometry: osm.GeometryPolygon,
		Tags:     map[string]string{"building": "yes", "height": "8"},
		Rings: [][]coord.Point{{
			{X: 0, Z: 0}, {X: 4, Z: 0}, {X: 4, Z: 4}, {X: 0, Z: 4}, {X: 0, Z: 0},
		}},
	}

	err := Dispatch(context.Background(), pc, el)
	require.NoError(t, err)

	wall := pc.World.BlockAt(0, 1, 0)
	assert.False(t, wall.IsAir())
	floor := pc.World.BlockAt(2, 0, 2)
	assert.Equal(t, block.OakPlanks.Key(), floor.Key())
	assert.True(t, pc.Footprint.Contains(coord.Point{X: 2, Z: 2}))
}

func TestProcessHighwayRecordsConnectivity(t *testing.T) {
	pc := newTestContext(t)
	el := osm.ProcessedElement{
		ID:       2,
		Category: osm.CategoryHighway,
		Geometry: osm.GeometryLineString,
		Tags:     map[string]string{"highway": "residential"},
		Line:     []coord.Point{{X: 0, Z: 0}, {X: 10, Z: 0}},
	}

	err := Dispatch(context.Background(), pc, el)
	require.NoError(t, err)

	surface := pc.World.BlockAt(5, 0, 0)
	assert.Equal(t, block.SmoothStone.Key(), surface.Key())
	_, ok := pc.Highways.At(coord.Point{X: 5, Z: 0})
	assert.True(t, ok)
}

func TestProcessTreeSkipsFootprintCell(t *testing.T) {
	pc := newTestContext(t)
	pc.Footprint.Mark(coord.Point{X: 10, Z: 10})
	el := osm.ProcessedElement{
		ID:       3,
		Category: osm.CategoryTree,
		Geometry: osm.GeometryPoint,
		Tags:     map[string]string{"natural": "tree"},
		Point:    coord.Point{X: 10, Z: 10},
	}

	err := Dispatch(context.Background(), pc, el)
	require.NoError(t, err)
	assert.True(t, pc.World.BlockAt(10, 1, 10).IsAir())
}

func TestProcessDoorFacesAwayFromFootprint(t *testing.T) {
	pc := newTestContext(t)
	pc.Footprint.Mark(coord.Point{X: 5, Z: 5})
	pc.Footprint.Mark(coord.Point{X: 5, Z: 4})
	el := osm.ProcessedElement{
		ID:       4,
		Category: osm.CategoryDoor,
		Geometry: osm.GeometryPoint,
		Tags:     map[string]string{"entrance": "yes"},
		Point:    coord.Point{X: 5, Z: 5},
	}

	err := Dispatch(context.Background(), pc, el)
	require.NoError(t, err)

	placed := pc.World.BlockAt(5, 1, 5)
	facing, ok := placed.Property("facing")
	require.True(t, ok)
	assert.Equal(t, "south", facing)
}

func TestProcessWaterAreaFloodsInterior(t *testing.T) {
	pc := newTestContext(t)
	el := osm.ProcessedElement{
		ID:       5,
		Category: osm.CategoryWaterArea,
		Geometry: osm.GeometryPolygon,
		Tags:     map[string]string{"natural": "water"},
		Rings: [][]coord.Point{{
			{X: 0, Z: 0}, {X: 6, Z: 0}, {X: 6, Z: 6}, {X: 0, Z: 6}, {X: 0, Z: 0},
		}},
	}

	err := Dispatch(context.Background(), pc, el)
	require.NoError(t, err)
	assert.Equal(t, block.Water.Key(), pc.World.BlockAt(3, 0, 3).Key())
	assert.Equal(t, block.Dirt.Key(), pc.World.BlockAt(3, -1, 3).Key())
	assert.Equal(t, block.Gravel.Key(), pc.World.BlockAt(3, -2, 3).Key())
}

// TestProcessTreeSkipsHighwayCell covers the tree-over-highway scenario: a
// forest tile and a crossing highway both claim the same cell, and the
// highway runs first (by category priority), so the tree must not land on
// a cell the highway already paved.
func TestProcessTreeSkipsHighwayCell(t *testing.T) {
	pc := newTestContext(t)
	highway := osm.ProcessedElement{
		ID:       10,
		Category: osm.CategoryHighway,
		Geometry: osm.GeometryLineString,
		Tags:     map[string]string{"highway": "primary"},
		Line:     []coord.Point{{X: 0, Z: 10}, {X: 20, Z: 10}},
	}
	require.NoError(t, Dispatch(context.Background(), pc, highway))

	p := coord.Point{X: 10, Z: 10}
	_, onHighway := pc.Highways.At(p)
	require.True(t, onHighway, "highway processing must have claimed the crossing cell")

	tree := osm.ProcessedElement{
		ID:       11,
		Category: osm.CategoryTree,
		Geometry: osm.GeometryPoint,
		Tags:     map[string]string{"natural": "tree"},
		Point:    p,
	}
	require.NoError(t, Dispatch(context.Background(), pc, tree))

	trunk := pc.World.BlockAt(p.X, 1, p.Z)
	assert.True(t, trunk.IsAir(), "no log or leaves may occupy a cell within the highway strip")
}

// TestProcessAreaDecorationSkipsHighwayCell is the landuse-decoration
// sibling of TestProcessTreeSkipsHighwayCell: a forest landuse tile's
// random tree placement must also respect the highway graph, not just the
// building footprint.
func TestProcessAreaDecorationSkipsHighwayCell(t *testing.T) {
	pc := newTestContext(t)
	highway := osm.ProcessedElement{
		ID:       20,
		Category: osm.CategoryHighway,
		Geometry: osm.GeometryLineString,
		Tags:     map[string]string{"highway": "primary"},
		Line:     []coord.Point{{X: 0, Z: 2}, {X: 8, Z: 2}},
	}
	require.NoError(t, Dispatch(context.Background(), pc, highway))

	forest := osm.ProcessedElement{
		ID:       21,
		Category: osm.CategoryLanduse,
		Geometry: osm.GeometryPolygon,
		Tags:     map[string]string{"landuse": "forest"},
		Rings: [][]coord.Point{{
			{X: 0, Z: 0}, {X: 8, Z: 0}, {X: 8, Z: 4}, {X: 0, Z: 4}, {X: 0, Z: 0},
		}},
	}
	require.NoError(t, Dispatch(context.Background(), pc, forest))

	for x := int32(0); x <= 8; x++ {
		p := coord.Point{X: x, Z: 2}
		if _, onHighway := pc.Highways.At(p); !onHighway {
			continue
		}
		trunk := pc.World.BlockAt(p.X, 1, p.Z)
		assert.True(t, trunk.IsAir(), "cell %v is on the highway strip and must stay clear", p)
	}
}

// TestProcessBridgeSpongeProtectsSpanFromWater: a bridge runs before the
// waterway it crosses, and its sponge markers must keep the cells under
// the deck from being carved into the water trench.
func TestProcessBridgeSpongeProtectsSpanFromWater(t *testing.T) {
	pc := newTestContext(t)
	bridge := osm.ProcessedElement{
		ID:       30,
		Category: osm.CategoryBridge,
		Geometry: osm.GeometryLineString,
		Tags:     map[string]string{"bridge": "yes"},
		Line:     []coord.Point{{X: 0, Z: 5}, {X: 10, Z: 5}},
	}
	require.NoError(t, Dispatch(context.Background(), pc, bridge))
	assert.Equal(t, block.Sponge.Key(), pc.World.BlockAt(5, 0, 5).Key())

	river := osm.ProcessedElement{
		ID:       31,
		Category: osm.CategoryWaterway,
		Geometry: osm.GeometryLineString,
		Tags:     map[string]string{"waterway": "stream"},
		Line:     []coord.Point{{X: 5, Z: 0}, {X: 5, Z: 10}},
	}
	require.NoError(t, Dispatch(context.Background(), pc, river))

	assert.Equal(t, block.Sponge.Key(), pc.World.BlockAt(5, 0, 5).Key(),
		"the waterway must not carve the cell the bridge span claimed")
	assert.Equal(t, block.Water.Key(), pc.World.BlockAt(5, -1, 9).Key(),
		"cells away from the span still get their water trench")
}

func TestProcessAmenityNamePlacesSign(t *testing.T) {
	pc := newTestContext(t)
	el := osm.ProcessedElement{
		ID:       32,
		Category: osm.CategoryAmenity,
		Geometry: osm.GeometryPoint,
		Tags:     map[string]string{"amenity": "bench", "name": "Jubilee Gardens"},
		Point:    coord.Point{X: 8, Z: 8},
	}
	require.NoError(t, Dispatch(context.Background(), pc, el))

	rp := coord.RegionAt(9, 8)
	cp := coord.ChunkAt(9, 8)
	chunk, ok := pc.World.Region(rp).ChunkIfPresent(cp)
	require.True(t, ok)
	require.Len(t, chunk.Signs, 1)
	assert.Equal(t, "Jubilee Gardens", chunk.Signs[0].Lines[0])
}

func TestProcessAreaDecorationResurfacesFarmland(t *testing.T) {
	pc := newTestContext(t)
	el := osm.ProcessedElement{
		ID:       6,
		Category: osm.CategoryLanduse,
		Geometry: osm.GeometryPolygon,
		Tags:     map[string]string{"landuse": "farmland"},
		Rings: [][]coord.Point{{
			{X: 0, Z: 0}, {X: 4, Z: 0}, {X: 4, Z: 4}, {X: 0, Z: 4}, {X: 0, Z: 0},
		}},
	}

	err := Dispatch(context.Background(), pc, el)
	require.NoError(t, err)
	assert.Equal(t, block.Farmland.Key(), pc.World.BlockAt(2, 0, 2).Key())
}

func TestFloodFillTimeoutSkipsElement(t *testing.T) {
	cache := NewFloodFillCache(time.Nanosecond)
	ring := []coord.Point{{X: 0, Z: 0}, {X: 400, Z: 0}, {X: 400, Z: 400}, {X: 0, Z: 400}, {X: 0, Z: 0}}

	_, err := cache.Fill(context.Background(), 99, ring, nil)
	require.Error(t, err)

	var timeout *FloodFillTimeout
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, int64(99), timeout.ElementID)
}

func TestFloodFillCacheMemoizes(t *testing.T) {
	cache := NewFloodFillCache()
	ring := []coord.Point{{X: 0, Z: 0}, {X: 4, Z: 0}, {X: 4, Z: 4}, {X: 0, Z: 4}, {X: 0, Z: 0}}

	first, err := cache.Fill(context.Background(), 7, ring, nil)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	// A second request for the same element returns the cached cells even
	// if the ring argument were different; the element id is the key.
	second, err := cache.Fill(context.Background(), 7, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestProcessLeisureParkResurfaces(t *testing.T) {
	pc := newTestContext(t)
	el := osm.ProcessedElement{
		ID:       40,
		Category: osm.CategoryLeisure,
		Geometry: osm.GeometryPolygon,
		Tags:     map[string]string{"leisure": "park"},
		Rings: [][]coord.Point{{
			{X: 0, Z: 0}, {X: 6, Z: 0}, {X: 6, Z: 6}, {X: 0, Z: 6}, {X: 0, Z: 0},
		}},
	}
	require.NoError(t, Dispatch(context.Background(), pc, el))
	assert.Equal(t, block.GrassBlock.Key(), pc.World.BlockAt(3, 0, 3).Key())
}
