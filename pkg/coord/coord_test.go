package coord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBBoxStrict(t *testing.T) {
	_, err := NewBBoxStrict(10, 10, 0, 0)
	require.ErrorIs(t, err, ErrInvalidBBox)

	bb, err := NewBBoxStrict(0, 0, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, int32(100), bb.Width())
	assert.Equal(t, int32(100), bb.Height())
}

func TestBBoxContains(t *testing.T) {
	bb := BBox{MinX: 0, MaxX: 10, MinZ: 0, MaxZ: 10}
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{0, 0}, true},
		{Point{10, 10}, true},
		{Point{5, 5}, true},
		{Point{-1, 5}, false},
		{Point{5, 11}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bb.Contains(tt.p), "Contains(%v)", tt.p)
	}
}

func TestBBoxIntersects(t *testing.T) {
	a := BBox{MinX: 0, MaxX: 10, MinZ: 0, MaxZ: 10}
	b := BBox{MinX: 10, MaxX: 20, MinZ: 10, MaxZ: 20}
	c := BBox{MinX: 11, MaxX: 20, MinZ: 0, MaxZ: 10}
	assert.True(t, a.Intersects(b), "touching corners should count as overlap")
	assert.False(t, a.Intersects(c), "disjoint on X")
}

func TestBBoxExpandTranslate(t *testing.T) {
	bb := BBox{MinX: 0, MaxX: 10, MinZ: 0, MaxZ: 10}
	ex := bb.Expand(5)
	assert.Equal(t, BBox{MinX: -5, MaxX: 15, MinZ: -5, MaxZ: 15}, ex)

	tr := bb.Translate(Vector{DX: 3, DZ: -2})
	assert.Equal(t, BBox{MinX: 3, MaxX: 13, MinZ: -2, MaxZ: 8}, tr)
}

func TestChunkRegionArithmetic(t *testing.T) {
	cp := ChunkAt(513, -17)
	assert.Equal(t, ChunkPos{X: 32, Z: -2}, cp)

	rp := cp.RegionOf()
	assert.Equal(t, RegionPos{X: 1, Z: -1}, rp)

	lx, lz := cp.LocalIn()
	assert.Equal(t, int32(0), lx)
	assert.Equal(t, int32(30), lz)
}

func TestSectionArithmetic(t *testing.T) {
	assert.Equal(t, int32(1), SectionY(17))
	assert.Equal(t, int32(-1), SectionY(-1))
	assert.Equal(t, int32(1), LocalY(17))

	lx, lz := LocalXZ(31, -1)
	assert.Equal(t, int32(15), lx)
	assert.Equal(t, int32(15), lz)
}

func TestSectionIndexOrder(t *testing.T) {
	// y*256 + z*16 + x
	assert.Equal(t, 0, SectionIndex(0, 0, 0))
	assert.Equal(t, 1, SectionIndex(1, 0, 0))
	assert.Equal(t, 256, SectionIndex(0, 1, 0))
	assert.Equal(t, 16, SectionIndex(0, 0, 1))
	assert.Equal(t, 256+16+1, SectionIndex(1, 1, 1))
}

func TestDeriveScaleAndProject(t *testing.T) {
	g := GeoBBox{MinLon: 0, MinLat: 0, MaxLon: 0.01, MaxLat: 0.01}
	xMeters, zMeters := g.EdgeMeters()
	require.Greater(t, xMeters, 0.0)
	require.Greater(t, zMeters, 0.0)

	scale := DeriveScale(g, 1.0, 1000, 1000)
	assert.InDelta(t, xMeters/1000, scale.X, 1e-9)
	assert.InDelta(t, zMeters/1000, scale.Z, 1e-9)

	nw := Project(g, GeoPoint{Lon: g.MinLon, Lat: g.MaxLat}, scale)
	assert.Equal(t, Point{X: 0, Z: 0}, nw)

	se := Project(g, GeoPoint{Lon: g.MaxLon, Lat: g.MinLat}, scale)
	assert.InDelta(t, 1000, se.X, 2)
	assert.InDelta(t, 1000, se.Z, 2)
}

func TestProjectStraddlingPrimeMeridianAndEquator(t *testing.T) {
	g := GeoBBox{MinLon: -0.005, MinLat: -0.005, MaxLon: 0.005, MaxLat: 0.005}
	scale := DeriveScale(g, 1.0, 1000, 1000)

	nw := Project(g, GeoPoint{Lon: g.MinLon, Lat: g.MaxLat}, scale)
	assert.Equal(t, Point{X: 0, Z: 0}, nw)

	center := Project(g, GeoPoint{Lon: 0, Lat: 0}, scale)
	assert.InDelta(t, 500, center.X, 2)
	assert.InDelta(t, 500, center.Z, 2)
}
