package osm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnisgo/arnis/pkg/coord"
)

func testGeo() coord.GeoBBox {
	return coord.GeoBBox{MinLon: 0, MinLat: 0, MaxLon: 0.01, MaxLat: 0.01}
}

func testScale(geo coord.GeoBBox) coord.Scale {
	return coord.DeriveScale(geo, 1.0, 1000, 1000)
}

func TestParseClassifiesBuildingAsPolygon(t *testing.T) {
	raw := []byte(`{
		"elements": [
			{"type":"node","id":1,"lat":0.001,"lon":0.001},
			{"type":"node","id":2,"lat":0.001,"lon":0.005},
			{"type":"node","id":3,"lat":0.005,"lon":0.005},
			{"type":"node","id":4,"lat":0.005,"lon":0.001},
			{"type":"way","id":100,"nodes":[1,2,3,4,1],"tags":{"building":"yes"}}
		]
	}`)
	geo := testGeo()
	scale := testScale(geo)
	worldBBox, err := coord.NewBBoxStrict(0, 0, 1000, 1000)
	require.NoError(t, err)

	elems, err := Parse(raw, geo, worldBBox, scale)
	require.NoError(t, err)
	require.Len(t, elems, 1)
	assert.Equal(t, CategoryBuilding, elems[0].Category)
	assert.Equal(t, GeometryPolygon, elems[0].Geometry)
	require.Len(t, elems[0].Rings, 1)
	assert.GreaterOrEqual(t, len(elems[0].Rings[0]), 3)
}

func TestParseClassifiesHighwayAsLineString(t *testing.T) {
	raw := []byte(`{
		"elements": [
			{"type":"node","id":1,"lat":0.001,"lon":0.001},
			{"type":"node","id":2,"lat":0.001,"lon":0.009},
			{"type":"way","id":200,"nodes":[1,2],"tags":{"highway":"residential"}}
		]
	}`)
	geo := testGeo()
	scale := testScale(geo)
	worldBBox, err := coord.NewBBoxStrict(0, 0, 1000, 1000)
	require.NoError(t, err)

	elems, err := Parse(raw, geo, worldBBox, scale)
	require.NoError(t, err)
	require.Len(t, elems, 1)
	assert.Equal(t, CategoryHighway, elems[0].Category)
	assert.Equal(t, GeometryLineString, elems[0].Geometry)
	assert.GreaterOrEqual(t, len(elems[0].Line), 2)
}

func TestParseDropsUntaggedWay(t *testing.T) {
	raw := []byte(`{
		"elements": [
			{"type":"node","id":1,"lat":0.001,"lon":0.001},
			{"type":"node","id":2,"lat":0.001,"lon":0.002},
			{"type":"way","id":300,"nodes":[1,2],"tags":{}}
		]
	}`)
	geo := testGeo()
	scale := testScale(geo)
	worldBBox, err := coord.NewBBoxStrict(0, 0, 1000, 1000)
	require.NoError(t, err)

	elems, err := Parse(raw, geo, worldBBox, scale)
	require.NoError(t, err)
	assert.Empty(t, elems)
}

func TestParseSortsByPriority(t *testing.T) {
	raw := []byte(`{
		"elements": [
			{"type":"node","id":1,"lat":0.001,"lon":0.001},
			{"type":"node","id":2,"lat":0.001,"lon":0.009},
			{"type":"way","id":10,"nodes":[1,2],"tags":{"barrier":"fence"}},
			{"type":"way","id":11,"nodes":[1,2],"tags":{"highway":"residential"}}
		]
	}`)
	geo := testGeo()
	scale := testScale(geo)
	worldBBox, err := coord.NewBBoxStrict(0, 0, 1000, 1000)
	require.NoError(t, err)

	elems, err := Parse(raw, geo, worldBBox, scale)
	require.NoError(t, err)
	require.Len(t, elems, 2)
	assert.Equal(t, CategoryHighway, elems[0].Category, "highway (priority 2) must sort before barrier (priority 7)")
	assert.Equal(t, CategoryBarrier, elems[1].Category)
}

func TestParseEntranceNodeIsPoint(t *testing.T) {
	raw := []byte(`{
		"elements": [
			{"type":"node","id":1,"lat":0.002,"lon":0.002,"tags":{"entrance":"yes"}}
		]
	}`)
	geo := testGeo()
	scale := testScale(geo)
	worldBBox, err := coord.NewBBoxStrict(0, 0, 1000, 1000)
	require.NoError(t, err)

	elems, err := Parse(raw, geo, worldBBox, scale)
	require.NoError(t, err)
	require.Len(t, elems, 1)
	assert.Equal(t, CategoryDoor, elems[0].Category)
	assert.Equal(t, GeometryPoint, elems[0].Geometry)
}

func TestClipLineSplitsAtBBoxEdge(t *testing.T) {
	bbox, err := coord.NewBBoxStrict(0, 0, 100, 100)
	require.NoError(t, err)

	// Enters from the west, leaves east: one surviving segment clipped to
	// the buffered bound.
	line := []coord.Point{{X: -500, Z: 50}, {X: 600, Z: 50}}
	segments := clipLine(bbox, line)
	require.Len(t, segments, 1)
	for _, p := range segments[0] {
		assert.GreaterOrEqual(t, p.X, int32(-clipBuffer))
		assert.LessOrEqual(t, p.X, int32(100+clipBuffer))
	}
}

func TestClipRingCrossingBBoxEdge(t *testing.T) {
	bbox, err := coord.NewBBoxStrict(0, 0, 100, 100)
	require.NoError(t, err)

	// Ring half inside, half west of the selection.
	ring := []coord.Point{
		{X: -50, Z: 20}, {X: 40, Z: 20}, {X: 40, Z: 80}, {X: -50, Z: 80}, {X: -50, Z: 20},
	}
	clipped := clipRing(bbox, ring)
	require.GreaterOrEqual(t, len(clipped), 3)
	for _, p := range clipped {
		assert.GreaterOrEqual(t, p.X, int32(-clipBuffer))
	}
	// The inside portion survives intact.
	maxX := clipped[0].X
	for _, p := range clipped {
		if p.X > maxX {
			maxX = p.X
		}
	}
	assert.Equal(t, int32(40), maxX)
}

func TestClipRingFullyOutsideDropsElement(t *testing.T) {
	bbox, err := coord.NewBBoxStrict(0, 0, 100, 100)
	require.NoError(t, err)

	ring := []coord.Point{
		{X: 500, Z: 500}, {X: 600, Z: 500}, {X: 600, Z: 600}, {X: 500, Z: 600}, {X: 500, Z: 500},
	}
	assert.Nil(t, clipRing(bbox, ring))
}

func TestParseOrdersSamePriorityByID(t *testing.T) {
	raw := []byte(`{
		"elements": [
			{"type":"node","id":1,"lat":0.001,"lon":0.001},
			{"type":"node","id":2,"lat":0.001,"lon":0.009},
			{"type":"way","id":22,"nodes":[1,2],"tags":{"highway":"residential"}},
			{"type":"way","id":21,"nodes":[1,2],"tags":{"highway":"service"}},
			{"type":"way","id":20,"nodes":[1,2],"tags":{"highway":"primary"}}
		]
	}`)
	geo := testGeo()
	scale := testScale(geo)
	worldBBox, err := coord.NewBBoxStrict(0, 0, 1000, 1000)
	require.NoError(t, err)

	elems, err := Parse(raw, geo, worldBBox, scale)
	require.NoError(t, err)
	require.Len(t, elems, 3)
	assert.Equal(t, int64(20), elems[0].ID)
	assert.Equal(t, int64(21), elems[1].ID)
	assert.Equal(t, int64(22), elems[2].ID)
}
