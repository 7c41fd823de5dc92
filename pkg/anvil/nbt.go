// Package anvil implements the Anvil writer: it encodes the
// sparse block store into region files Minecraft Java Edition can load,
// and patches a save's level.dat.
package anvil

import (
	"strconv"

	"github.com/arnisgo/arnis/pkg/store"
)

// DataVersion pins the NBT data format this writer emits to a single
// Java Edition release; multi-version support is out of scope. 3953
// corresponds to 1.21's flattened palette format.
const DataVersion = 3953

// chunkRoot is the unnamed root compound of a chunk's NBT document.
// Sections and palette entries are fully typed; block entities stay
// loosely-typed maps so entities read back from an existing world (a
// chest's items, a spawner's config) pass through the merge with every
// key intact. gophertunnel's nbt encoder writes map keys in sorted
// order, so the loose typing costs nothing in output determinism.
type chunkRoot struct {
	DataVersion   int32              `nbt:"DataVersion"`
	XPos          int32              `nbt:"xPos"`
	ZPos          int32              `nbt:"zPos"`
	YPos          int32              `nbt:"yPos"`
	Status        string             `nbt:"Status"`
	Sections      []sectionNBT       `nbt:"sections"`
	BlockEntities []map[string]any   `nbt:"block_entities"`
	Heightmaps    map[string][]int64 `nbt:"Heightmaps"`
	IsLightOn     byte               `nbt:"isLightOn"`
}

type sectionNBT struct {
	Y           byte        `nbt:"Y"`
	BlockStates blockStates `nbt:"block_states"`
	Biomes      biomes      `nbt:"biomes"`
	BlockLight  []byte      `nbt:"BlockLight"`
	SkyLight    []byte      `nbt:"SkyLight"`
}

type blockStates struct {
	Palette []paletteEntry `nbt:"palette"`
	Data    []int64        `nbt:"data,omitempty"`
}

// paletteEntry is one deduplicated block descriptor in a section's
// palette.
type paletteEntry struct {
	Name       string            `nbt:"Name"`
	Properties map[string]string `nbt:"Properties,omitempty"`
}

// biomes carries a single-entry biome palette: every section of a chunk
// reports the one biome kind the writer was given for that chunk
// (minecraft:plains when none), with no per-voxel biome data.
type biomes struct {
	Palette []string `nbt:"palette"`
}

const signBlockEntityID = "minecraft:sign"

// signEntityNBT builds the block-entity compound for a generator-placed
// sign: the four text lines as JSON text components on the front face, a
// blank back face.
func signEntityNBT(s store.SignEntity) map[string]any {
	front := make([]string, 4)
	back := make([]string, 4)
	for i, line := range s.Lines {
		front[i] = strconv.Quote(line)
		back[i] = `""`
	}
	return map[string]any{
		"id":         signBlockEntityID,
		"keepPacked": byte(0),
		"x":          s.X,
		"y":          s.Y,
		"z":          s.Z,
		"is_waxed":   byte(0),
		"front_text": map[string]any{
			"messages":         front,
			"color":            "black",
			"has_glowing_text": byte(0),
		},
		"back_text": map[string]any{
			"messages":         back,
			"color":            "black",
			"has_glowing_text": byte(0),
		},
	}
}

// entityPos extracts a block entity's coordinates, tolerating whichever
// integer width the original writer used.
func entityPos(be map[string]any) (x, y, z int32, ok bool) {
	xi, okX := asInt32(be["x"])
	yi, okY := asInt32(be["y"])
	zi, okZ := asInt32(be["z"])
	return xi, yi, zi, okX && okY && okZ
}

func asInt32(v any) (int32, bool) {
	switch n := v.(type) {
	case int32:
		return n, true
	case int64:
		return int32(n), true
	case int16:
		return int32(n), true
	case int8:
		return int32(n), true
	case byte:
		return int32(n), true
	default:
		return 0, false
	}
}
