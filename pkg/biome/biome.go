package biome

import "github.com/arnisgo/arnis/pkg/block"

// Kind names the biome classes the ground layer recognizes: the handful
// that actually change the ground-layer surface block.
type Kind struct {
	NamespacedID string
	Surface      block.Block
}

var (
	kindSnowy  = Kind{NamespacedID: "minecraft:snowy_plains", Surface: block.SnowBlock}
	kindDesert = Kind{NamespacedID: "minecraft:desert", Surface: block.Sand}
	kindForest = Kind{NamespacedID: "minecraft:forest", Surface: block.GrassBlock}
	kindPlains = Kind{NamespacedID: "minecraft:plains", Surface: block.GrassBlock}
)

// Selector assigns a Kind to any world-XZ cell from two independent,
// low-frequency noise fields (temperature and rainfall), seeded
// deterministically per run so two runs over the same selection always
// agree.
type Selector struct {
	temp *perlin
	rain *perlin
}

// NewSelector builds a Selector seeded by seed, typically derived from the
// selection's geographic bbox so the same area always picks the same
// biome regardless of which processing unit touches it.
func NewSelector(seed int64) *Selector {
	return &Selector{
		temp: newPerlin(seed),
		rain: newPerlin(seed ^ 0x5DEECE66D),
	}
}

// regionScale keeps biome regions on the order of several hundred blocks
// wide.
const regionScale = 0.003

// At classifies the cell (x, z), returning its Kind.
func (s *Selector) At(x, z int32) Kind {
	bx := float64(x) * regionScale
	bz := float64(z) * regionScale

	temp := s.temp.octaveNoise2D(bx, bz, 4, 2.0, 0.5)
	rain := s.rain.octaveNoise2D(bx+500, bz+500, 4, 2.0, 0.5)

	temp = (temp + 1) / 2
	rain = (rain + 1) / 2

	switch {
	case temp < 0.25:
		return kindSnowy
	case temp > 0.75 && rain < 0.3:
		return kindDesert
	case rain > 0.55:
		return kindForest
	default:
		return kindPlains
	}
}

// SurfaceFor is a convenience that skips straight to the ground-layer
// surface block for (x, z), for callers that don't need the biome tag
// itself.
func (s *Selector) SurfaceFor(x, z int32) block.Block {
	return s.At(x, z).Surface
}
