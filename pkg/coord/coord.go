// Package coord implements the world-XZ coordinate model: points, vectors,
// axis-aligned bounding boxes, and the pure arithmetic that maps a block
// position onto its region/chunk/section indices.
package coord

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb/geo"
)

// YMin and YMax bound every block Y coordinate written by the generator.
const (
	YMin = -64
	YMax = 319
)

// ErrInvalidBBox is returned when a bounding box is constructed with a
// minimum corner greater than its maximum corner on either axis.
var ErrInvalidBBox = errors.New("coord: invalid bbox (min > max)")

// Point is a block position in the XZ plane.
type Point struct {
	X, Z int32
}

// Vector is a displacement in the XZ plane.
type Vector struct {
	DX, DZ int32
}

// Add returns p translated by v.
func (p Point) Add(v Vector) Point {
	return Point{X: p.X + v.DX, Z: p.Z + v.DZ}
}

// Sub returns the vector from o to p.
func (p Point) Sub(o Point) Vector {
	return Vector{DX: p.X - o.X, DZ: p.Z - o.Z}
}

// BBox is an axis-aligned bounding box in world XZ.
type BBox struct {
	MinX, MaxX int32
	MinZ, MaxZ int32
}

// NewBBox builds a bbox from two corners, normalizing their order.
// It never fails; NewBBoxStrict is the constructor that returns an error
// for invalid input.
func NewBBox(a, b Point) BBox {
	bb := BBox{MinX: a.X, MaxX: b.X, MinZ: a.Z, MaxZ: b.Z}
	if bb.MinX > bb.MaxX {
		bb.MinX, bb.MaxX = bb.MaxX, bb.MinX
	}
	if bb.MinZ > bb.MaxZ {
		bb.MinZ, bb.MaxZ = bb.MaxZ, bb.MinZ
	}
	return bb
}

// NewBBoxStrict builds a bbox from explicit min/max corners, returning
// ErrInvalidBBox if either axis has min > max.
func NewBBoxStrict(minX, minZ, maxX, maxZ int32) (BBox, error) {
	if minX > maxX || minZ > maxZ {
		return BBox{}, fmt.Errorf("%w: (%d,%d)-(%d,%d)", ErrInvalidBBox, minX, minZ, maxX, maxZ)
	}
	return BBox{MinX: minX, MaxX: maxX, MinZ: minZ, MaxZ: maxZ}, nil
}

// NewBBoxFromSize builds a bbox from an origin corner plus a width/height,
// both of which must be non-negative.
func NewBBoxFromSize(origin Point, width, height int32) (BBox, error) {
	if width < 0 || height < 0 {
		return BBox{}, fmt.Errorf("%w: negative size (%d,%d)", ErrInvalidBBox, width, height)
	}
	return BBox{
		MinX: origin.X, MaxX: origin.X + width,
		MinZ: origin.Z, MaxZ: origin.Z + height,
	}, nil
}

// Width returns the bbox's extent along X.
func (b BBox) Width() int32 { return b.MaxX - b.MinX }

// Height returns the bbox's extent along Z.
func (b BBox) Height() int32 { return b.MaxZ - b.MinZ }

// Translate returns b shifted by v.
func (b BBox) Translate(v Vector) BBox {
	return BBox{
		MinX: b.MinX + v.DX, MaxX: b.MaxX + v.DX,
		MinZ: b.MinZ + v.DZ, MaxZ: b.MaxZ + v.DZ,
	}
}

// Expand returns b grown by n blocks on every side.
func (b BBox) Expand(n int32) BBox {
	return BBox{
		MinX: b.MinX - n, MaxX: b.MaxX + n,
		MinZ: b.MinZ - n, MaxZ: b.MaxZ + n,
	}
}

// Contains reports whether p lies within b, inclusive of the boundary.
func (b BBox) Contains(p Point) bool {
	return b.MinX <= p.X && p.X <= b.MaxX && b.MinZ <= p.Z && p.Z <= b.MaxZ
}

// Intersects reports whether b and o overlap (touching edges count as overlap).
func (b BBox) Intersects(o BBox) bool {
	return b.MinX <= o.MaxX && o.MinX <= b.MaxX && b.MinZ <= o.MaxZ && o.MinZ <= b.MaxZ
}

// RegionPos identifies a 32x32-chunk (512x512-block) region.
type RegionPos struct {
	X, Z int32
}

// ChunkPos identifies a 16x16-block chunk column in absolute chunk space.
type ChunkPos struct {
	X, Z int32
}

// RegionOf returns the region containing the given chunk.
func (c ChunkPos) RegionOf() RegionPos {
	return RegionPos{X: c.X >> 5, Z: c.Z >> 5}
}

// LocalIn returns the chunk's index within its region, each in [0,31].
func (c ChunkPos) LocalIn() (lx, lz int32) {
	return c.X & 31, c.Z & 31
}

// ChunkAt returns the chunk position containing the block at (x, z).
func ChunkAt(x, z int32) ChunkPos {
	return ChunkPos{X: x >> 4, Z: z >> 4}
}

// RegionAt returns the region position containing the block at (x, z).
func RegionAt(x, z int32) RegionPos {
	return RegionPos{X: x >> 9, Z: z >> 9}
}

// LocalXZ returns a block's position within its chunk, each in [0,15].
func LocalXZ(x, z int32) (lx, lz int32) {
	return x & 15, z & 15
}

// SectionY returns the section index (can be negative) containing y.
func SectionY(y int32) int32 {
	return y >> 4
}

// LocalY returns a block's position within its section, in [0,15].
func LocalY(y int32) int32 {
	return y & 15
}

// SectionIndex computes the local-linear index of (lx, ly, lz) within a
// 16x16x16 section: y*256 + z*16 + x.
func SectionIndex(lx, ly, lz int32) int {
	return int(ly)*256 + int(lz)*16 + int(lx)
}

// GeoPoint is a WGS84 longitude/latitude pair, matching orb's (lon, lat)
// ordering convention.
type GeoPoint struct {
	Lon, Lat float64
}

// GeoBBox is a geographic bounding box, min/max in (lon, lat).
type GeoBBox struct {
	MinLon, MinLat float64
	MaxLon, MaxLat float64
}

// EdgeMeters returns the haversine distance in meters along the bbox's west
// edge (north-south) and north edge (east-west), computed with orb/geo so
// the spherical-earth trigonometry is not hand-rolled in this package.
func (g GeoBBox) EdgeMeters() (xMeters, zMeters float64) {
	nw := [2]float64{g.MinLon, g.MaxLat}
	ne := [2]float64{g.MaxLon, g.MaxLat}
	sw := [2]float64{g.MinLon, g.MinLat}
	xMeters = geo.Distance(nw, ne)
	zMeters = geo.Distance(nw, sw)
	return xMeters, zMeters
}

// Scale holds the per-axis meters-per-block resolution derived from a
// geographic bbox and the number of world blocks it is rendered into.
type Scale struct {
	X, Z float64
}

// DeriveScale computes the (scale_x, scale_z) resolution for projecting the
// geographic bbox onto a world area blocksX by blocksZ blocks wide, scaled
// by the user-supplied zoom factor. One block is nominally one meter at
// userScale = 1.0.
func DeriveScale(g GeoBBox, userScale float64, blocksX, blocksZ int32) Scale {
	xMeters, zMeters := g.EdgeMeters()
	var sx, sz float64
	if blocksX > 0 {
		sx = userScale * xMeters / float64(blocksX)
	}
	if blocksZ > 0 {
		sz = userScale * zMeters / float64(blocksZ)
	}
	return Scale{X: sx, Z: sz}
}

// Project converts a geographic point to a world XZ point relative to the
// bbox's north-west corner (g.MinLon, g.MaxLat), anchoring that corner at
// block (0, 0) per the generation convention: X east, Z south.
func Project(g GeoBBox, p GeoPoint, s Scale) Point {
	nwLon, nwLat := g.MinLon, g.MaxLat
	xMeters := geo.Distance([2]float64{nwLon, nwLat}, [2]float64{p.Lon, nwLat})
	zMeters := geo.Distance([2]float64{nwLon, nwLat}, [2]float64{nwLon, p.Lat})
	if p.Lon < nwLon {
		xMeters = -xMeters
	}
	if p.Lat > nwLat {
		zMeters = -zMeters
	}
	x := int32(0)
	z := int32(0)
	if s.X != 0 {
		x = int32(xMeters / s.X)
	}
	if s.Z != 0 {
		z = int32(zMeters / s.Z)
	}
	return Point{X: x, Z: z}
}
