package process

import (
	"github.com/arnisgo/arnis/pkg/block"
	"github.com/arnisgo/arnis/pkg/osm"
)

// signLineLen is the widest text a Java Edition sign line renders without
// clipping.
const signLineLen = 15

// processAmenity places a point decoration for a node amenity, or
// resurfaces a polygon amenity. Amenity values with no catalog
// entry are silently skipped: they carry no claim on the world and a
// later, unrelated category is free to write the cell.
func processAmenity(pc *Context, el osm.ProcessedElement) error {
	tag := el.Tags["amenity"]

	if el.Geometry == osm.GeometryPoint {
		if b, ok := amenityDecorationFor(tag); ok {
			pc.World.SetBlock(b, el.Point.X, 1, el.Point.Z, nil, nil)
		}
		if name := el.Tags["name"]; name != "" {
			placeNameSign(pc, el, name)
		}
		return nil
	}

	if len(el.Rings) == 0 || len(el.Rings[0]) < 3 {
		return nil
	}
	surface, ok := amenitySurfaceFor(tag)
	if !ok {
		return nil
	}
	interior, err := scanlineFill(el.Rings[0], el.Rings[1:], func() error { return nil })
	if err != nil {
		return err
	}
	for _, p := range interior {
		pc.World.SetBlock(surface, p.X, 0, p.Z, nil, nil)
	}
	return nil
}

// placeNameSign puts a standing sign next to a named point amenity with
// the name wrapped across the sign's four lines. Rotation is drawn from
// the coordinate RNG so the same element always faces the same way.
func placeNameSign(pc *Context, el osm.ProcessedElement, name string) {
	rotation := coordRNG(el.Point.X, el.Point.Z, el.ID).Intn(16)
	y := pc.World.GetAbsoluteY(el.Point.X, 1, el.Point.Z)
	pc.World.SetSign(wrapSignLines(name), block.Sign("oak", rotation), el.Point.X+1, y, el.Point.Z, rotation)
}

// wrapSignLines splits name into at most four sign lines of signLineLen
// runes each, dropping any overflow.
func wrapSignLines(name string) [4]string {
	var lines [4]string
	runes := []rune(name)
	for i := 0; i < 4 && len(runes) > 0; i++ {
		n := signLineLen
		if n > len(runes) {
			n = len(runes)
		}
		lines[i] = string(runes[:n])
		runes = runes[n:]
	}
	return lines
}
