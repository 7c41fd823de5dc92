package process

import "github.com/arnisgo/arnis/pkg/coord"

// bresenhamLine rasterizes the segment from a to b into the world-XZ
// cells it passes through rasterization step.
func bresenhamLine(a, b coord.Point) []coord.Point {
	x0, z0 := a.X, a.Z
	x1, z1 := b.X, b.Z

	dx := abs32(x1 - x0)
	dz := -abs32(z1 - z0)
	sx := int32(1)
	if x0 >= x1 {
		sx = -1
	}
	sz := int32(1)
	if z0 >= z1 {
		sz = -1
	}
	err := dx + dz

	var out []coord.Point
	for {
		out = append(out, coord.Point{X: x0, Z: z0})
		if x0 == x1 && z0 == z1 {
			break
		}
		e2 := 2 * err
		if e2 >= dz {
			err += dz
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			z0 += sz
		}
	}
	return out
}

// rasterizePolyline rasterizes every segment of a polyline.
func rasterizePolyline(line []coord.Point) []coord.Point {
	var out []coord.Point
	for i := 0; i+1 < len(line); i++ {
		out = append(out, bresenhamLine(line[i], line[i+1])...)
	}
	return out
}

// dilateDisk widens a set of centerline cells by radius (in blocks) using
// a disk brush "dilate perpendicularly by half-width using a
// disk-brush for rounded ends."
func dilateDisk(cells []coord.Point, radius int32) map[coord.Point]struct{} {
	out := make(map[coord.Point]struct{}, len(cells)*4)
	if radius <= 0 {
		for _, c := range cells {
			out[c] = struct{}{}
		}
		return out
	}
	r2 := radius * radius
	for _, c := range cells {
		for dx := -radius; dx <= radius; dx++ {
			for dz := -radius; dz <= radius; dz++ {
				if dx*dx+dz*dz > r2 {
					continue
				}
				out[coord.Point{X: c.X + dx, Z: c.Z + dz}] = struct{}{}
			}
		}
	}
	return out
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
