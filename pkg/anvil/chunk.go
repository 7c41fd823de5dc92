package anvil

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/sandertv/gophertunnel/minecraft/nbt"

	"github.com/arnisgo/arnis/pkg/biome"
	"github.com/arnisgo/arnis/pkg/block"
	"github.com/arnisgo/arnis/pkg/coord"
	"github.com/arnisgo/arnis/pkg/store"
)

// defaultBiome is the minecraft:plains fallback used wherever a caller
// doesn't supply a resolved biome.Kind (e.g. existing tests, or a chunk
// outside any biome.Selector's reach).
var defaultBiome = biome.Kind{NamespacedID: "minecraft:plains", Surface: block.GrassBlock}

// resolveBiome picks the caller-supplied biome.Kind if one was given, or
// defaultBiome otherwise. Taking it as a trailing variadic keeps the
// unexported chunk-building helpers callable with or without a resolved
// biome, so existing single-section tests don't need to thread one through.
func resolveBiome(override ...biome.Kind) biome.Kind {
	if len(override) > 0 {
		return override[0]
	}
	return defaultBiome
}

// EncodeChunk merges the sparse store chunk c into existing chunk NBT (nil
// if the chunk had no prior data) and returns the encoded, uncompressed
// NBT document. kind selects the biome tag
// and fallback ground surface for any untouched section; it defaults to
// minecraft:plains when omitted.
func EncodeChunk(c *store.Chunk, baseY int32, existing []byte, kind ...biome.Kind) ([]byte, error) {
	var prior *chunkRoot
	if existing != nil {
		decoded, err := decodeChunkRoot(existing)
		if err != nil {
			return nil, fmt.Errorf("decode existing chunk NBT: %w", err)
		}
		prior = decoded
	}

	root := mergeChunk(c, baseY, prior, kind...)
	return encodeRoot(root)
}

// encodeRoot marshals a chunk's NBT root document via the shared Java
// Edition big-endian codec.
func encodeRoot(root chunkRoot) ([]byte, error) {
	var buf bytes.Buffer
	enc := nbt.NewEncoderWithEncoding(&buf, nbt.BigEndian)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("encode chunk NBT: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeChunkRoot(data []byte) (*chunkRoot, error) {
	var root chunkRoot
	if err := nbt.NewDecoderWithEncoding(bytes.NewReader(data), nbt.BigEndian).Decode(&root); err != nil {
		return nil, err
	}
	return &root, nil
}

// mergeChunk builds the NBT document for chunk c, carrying through any
// prior sections/block-entities the generator didn't touch.
func mergeChunk(c *store.Chunk, baseY int32, prior *chunkRoot, kind ...biome.Kind) chunkRoot {
	touched := make(map[int32]*store.Section)
	for sy, sec := range c.Sections() {
		touched[sy] = sec
	}

	k := resolveBiome(kind...)
	bySY := make(map[int32]sectionNBT)
	if prior != nil {
		for _, s := range prior.Sections {
			bySY[int32(int8(s.Y))] = s
		}
	}
	for sy, sec := range touched {
		bySY[sy] = encodeSection(sec, k)
	}
	if len(bySY) == 0 {
		bySY[coord.SectionY(baseY)] = minimalGroundSection(coord.SectionY(baseY), coord.LocalY(baseY), k)
	}

	// Emit sections bottom-up; map iteration order would make the output
	// bytes vary between otherwise identical runs.
	sections := make([]sectionNBT, 0, len(bySY))
	for _, s := range bySY {
		sections = append(sections, s)
	}
	sort.Slice(sections, func(i, j int) bool { return int8(sections[i].Y) < int8(sections[j].Y) })

	blockEntities := mergeBlockEntities(c, prior)

	status := "full"
	if prior != nil && prior.Status != "" {
		status = prior.Status
	}

	heightmaps := map[string][]int64{}
	if prior != nil && prior.Heightmaps != nil {
		heightmaps = prior.Heightmaps
	}

	return chunkRoot{
		DataVersion:   DataVersion,
		XPos:          c.X,
		ZPos:          c.Z,
		YPos:          -4,
		Status:        status,
		Sections:      sections,
		BlockEntities: blockEntities,
		Heightmaps:    heightmaps,
		IsLightOn:     1,
	}
}

// encodeSection builds the block_states/biomes/light NBT for one section.
func encodeSection(sec *store.Section, kind ...biome.Kind) sectionNBT {
	pal := sec.Palette()
	bw := pal.BitWidth()
	indices := sec.Indices()

	ordered := make([]uint16, store.SectionBlocks)
	copy(ordered, indices[:])

	bs := encodeBlockStates(pal)
	if pal.Len() > 1 {
		bs.Data = packIndices(ordered, bw)
	}

	return sectionNBT{
		Y:           byte(sec.Y),
		BlockStates: bs,
		Biomes:      biomes{Palette: []string{resolveBiome(kind...).NamespacedID}},
		BlockLight:  make([]byte, 2048),
		SkyLight:    make([]byte, 2048),
	}
}

// minimalGroundSection builds the single-section minimal chunk body for
// an entirely untouched chunk: palette {air, <biome surface>}, with the
// surface block filling the plane at groundLocalY and air everywhere
// else.
func minimalGroundSection(sy, groundLocalY int32, kind ...biome.Kind) sectionNBT {
	k := resolveBiome(kind...)
	pal := block.NewPalette()
	pal.Index(block.Air)
	surfaceIdx := uint16(pal.Index(k.Surface))
	indices := make([]uint16, store.SectionBlocks)
	for z := int32(0); z < 16; z++ {
		for x := int32(0); x < 16; x++ {
			indices[coord.SectionIndex(x, groundLocalY, z)] = surfaceIdx
		}
	}
	bs := encodeBlockStates(pal)
	bs.Data = packIndices(indices, pal.BitWidth())

	return sectionNBT{
		Y:           byte(sy),
		BlockStates: bs,
		Biomes:      biomes{Palette: []string{k.NamespacedID}},
		BlockLight:  make([]byte, 2048),
		SkyLight:    make([]byte, 2048),
	}
}

// mergeBlockEntities preserves prior block entities that don't collide
// with a newly placed sign and appends the generator's signs, replacing
// wholesale any prior entity at the same coordinate.
func mergeBlockEntities(c *store.Chunk, prior *chunkRoot) []map[string]any {
	type coordKey struct{ x, y, z int32 }

	newSigns := make(map[coordKey]store.SignEntity, len(c.Signs))
	for _, s := range c.Signs {
		newSigns[coordKey{s.X, s.Y, s.Z}] = s
	}

	out := make([]map[string]any, 0, len(newSigns))
	if prior != nil {
		for _, be := range prior.BlockEntities {
			x, y, z, ok := entityPos(be)
			if ok {
				if _, collides := newSigns[coordKey{x, y, z}]; collides {
					continue
				}
			}
			out = append(out, be)
		}
	}
	for _, s := range c.Signs {
		out = append(out, signEntityNBT(s))
	}
	return out
}

// minimalChunk builds the minimal valid chunk for a position the
// generator never touched and which had no prior data:
// a single section at baseY with {air, biome surface} and a bedrock floor
// row at coord.YMin.
func minimalChunk(cx, cz, baseY int32, kind ...biome.Kind) chunkRoot {
	k := resolveBiome(kind...)
	groundSY := coord.SectionY(baseY)
	bedrockSY := coord.SectionY(coord.YMin)

	var sections []sectionNBT
	if bedrockSY != groundSY {
		sections = []sectionNBT{
			bedrockFloorSection(bedrockSY, k),
			minimalGroundSection(groundSY, coord.LocalY(baseY), k),
		}
	} else {
		sections = []sectionNBT{bedrockAndGroundSection(groundSY, coord.LocalY(baseY), coord.LocalY(coord.YMin), k)}
	}

	return chunkRoot{
		DataVersion:   DataVersion,
		XPos:          cx,
		ZPos:          cz,
		YPos:          -4,
		Status:        "full",
		Sections:      sections,
		BlockEntities: nil,
		Heightmaps:    map[string][]int64{},
		IsLightOn:     1,
	}
}

// bedrockFloorSection builds a section consisting entirely of a single
// bedrock row at local Y 0 and air elsewhere.
func bedrockFloorSection(sy int32, kind ...biome.Kind) sectionNBT {
	pal := block.NewPalette()
	pal.Index(block.Air)
	pal.Index(block.Bedrock)
	indices := make([]uint16, store.SectionBlocks)
	for i := 0; i < 256; i++ { // local y == 0 plane
		indices[i] = uint16(pal.Index(block.Bedrock))
	}
	bs := encodeBlockStates(pal)
	bs.Data = packIndices(indices, pal.BitWidth())
	return sectionNBT{
		Y:           byte(sy),
		BlockStates: bs,
		Biomes:      biomes{Palette: []string{resolveBiome(kind...).NamespacedID}},
		BlockLight:  make([]byte, 2048),
		SkyLight:    make([]byte, 2048),
	}
}

// bedrockAndGroundSection handles the case where coord.YMin and the base
// ground level fall in the same 16-block section.
func bedrockAndGroundSection(sy, groundLocalY, bedrockLocalY int32, kind ...biome.Kind) sectionNBT {
	k := resolveBiome(kind...)
	pal := block.NewPalette()
	pal.Index(block.Air)
	groundIdx := uint16(pal.Index(k.Surface))
	bedrockIdx := uint16(pal.Index(block.Bedrock))

	indices := make([]uint16, store.SectionBlocks)
	for z := int32(0); z < 16; z++ {
		for x := int32(0); x < 16; x++ {
			indices[coord.SectionIndex(x, bedrockLocalY, z)] = bedrockIdx
			indices[coord.SectionIndex(x, groundLocalY, z)] = groundIdx
		}
	}
	bs := encodeBlockStates(pal)
	bs.Data = packIndices(indices, pal.BitWidth())
	return sectionNBT{
		Y:           byte(sy),
		BlockStates: bs,
		Biomes:      biomes{Palette: []string{k.NamespacedID}},
		BlockLight:  make([]byte, 2048),
		SkyLight:    make([]byte, 2048),
	}
}
