package process

import (
	"github.com/arnisgo/arnis/pkg/block"
	"github.com/arnisgo/arnis/pkg/coord"
	"github.com/arnisgo/arnis/pkg/osm"
)

// processDoor places a door block at an entrance node, oriented to face
// the side that is not covered by any building footprint. It
// runs after every building processor in priority order, so the
// footprint bitmap it consults is already complete for any building the
// entrance sits on. When the entrance isn't adjacent to a footprint cell
// at all (an entrance tagged away from a building, e.g. a gate), it faces
// south by default.
func processDoor(pc *Context, el osm.ProcessedElement) error {
	p := el.Point
	facing := "south"
	neighbors := []struct {
		d coord.Point
		f string
	}{
		{coord.Point{X: p.X, Z: p.Z - 1}, "north"},
		{coord.Point{X: p.X, Z: p.Z + 1}, "south"},
		{coord.Point{X: p.X - 1, Z: p.Z}, "west"},
		{coord.Point{X: p.X + 1, Z: p.Z}, "east"},
	}
	adjacent := false
	for _, n := range neighbors {
		if pc.Footprint.Contains(n.d) {
			adjacent = true
			break
		}
	}
	if adjacent {
		for _, n := range neighbors {
			if !pc.Footprint.Contains(n.d) {
				facing = n.f
				break
			}
		}
	}

	species := "oak"
	if m, ok := el.Tags["material"]; ok {
		species = m
	}
	resolved, err := block.ResolveDoor(species, pc.Options.Debug)
	if err != nil {
		return err
	}
	door := resolved.With("facing", facing)
	pc.World.SetBlock(door, p.X, 1, p.Z, nil, nil)
	return nil
}
