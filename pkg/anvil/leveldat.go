package anvil

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/sandertv/gophertunnel/minecraft/nbt"

	"github.com/arnisgo/arnis/pkg/coord"
)

// level.dat is read and patched as a loosely-typed NBT document rather
// than a fully-typed struct: this writer only ever touches a handful of
// keys and must pass the rest of the document through unchanged.

// SpawnPoint is a user-supplied spawn position, clamped to the selection
// bbox before being written.
type SpawnPoint struct {
	X, Y, Z int32
}

// PatchLevelDat updates level.dat's spawn point and, when creating a new
// world, its flat world-generator settings. raw is the gzip-wrapped NBT
// bytes read from the world directory; the return value is the
// re-gzipped, re-encoded replacement. newWorld indicates no prior
// level.dat existed (raw is empty), in which case a minimal flat
// generator spec is written; otherwise existing world generation settings
// are left untouched.
func PatchLevelDat(raw []byte, spawn *SpawnPoint, bbox coord.BBox, baseY int32, newWorld bool) ([]byte, error) {
	var doc map[string]interface{}
	if len(raw) > 0 {
		decoded, err := decodeLevelDat(raw)
		if err != nil {
			return nil, fmt.Errorf("decode level.dat: %w", err)
		}
		doc = decoded
	} else {
		doc = map[string]interface{}{}
	}

	data, _ := doc["Data"].(map[string]interface{})
	if data == nil {
		data = map[string]interface{}{}
	}

	if spawn != nil {
		clamped := clampSpawn(*spawn, bbox)
		data["SpawnX"] = clamped.X
		data["SpawnY"] = clamped.Y
		data["SpawnZ"] = clamped.Z
	}

	if newWorld {
		data["WorldGenSettings"] = flatWorldGenSettings(baseY)
	}

	doc["Data"] = data
	return encodeLevelDat(doc)
}

func clampSpawn(p SpawnPoint, bbox coord.BBox) SpawnPoint {
	x := clamp32(p.X, bbox.MinX, bbox.MaxX)
	z := clamp32(p.Z, bbox.MinZ, bbox.MaxZ)
	y := clamp32(p.Y, coord.YMin, coord.YMax)
	return SpawnPoint{X: x, Y: y, Z: z}
}

func clamp32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// flatWorldGenSettings builds a minimal flat-world generator spec rooted
// at baseY, used only when creating a brand-new world save.
func flatWorldGenSettings(baseY int32) map[string]interface{} {
	return map[string]interface{}{
		"dimensions": map[string]interface{}{
			"minecraft:overworld": map[string]interface{}{
				"type": "minecraft:overworld",
				"generator": map[string]interface{}{
					"type": "minecraft:flat",
					"settings": map[string]interface{}{
						"biome": "minecraft:plains",
						"layers": []interface{}{
							map[string]interface{}{"block": "minecraft:bedrock", "height": int32(1)},
							map[string]interface{}{"block": "minecraft:stone", "height": baseY - coord.YMin - 4},
							map[string]interface{}{"block": "minecraft:dirt", "height": int32(3)},
						},
					},
				},
			},
		},
	}
}

func decodeLevelDat(raw []byte) (map[string]interface{}, error) {
	gz, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	uncompressed, err := io.ReadAll(gz)
	if err != nil {
		return nil, err
	}

	var doc map[string]interface{}
	if err := nbt.NewDecoderWithEncoding(bytes.NewReader(uncompressed), nbt.BigEndian).Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func encodeLevelDat(doc map[string]interface{}) ([]byte, error) {
	var nbtBuf bytes.Buffer
	enc := nbt.NewEncoderWithEncoding(&nbtBuf, nbt.BigEndian)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode level.dat NBT: %w", err)
	}

	var gzBuf bytes.Buffer
	gz := gzip.NewWriter(&gzBuf)
	if _, err := gz.Write(nbtBuf.Bytes()); err != nil {
		return nil, fmt.Errorf("gzip level.dat: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("close gzip writer: %w", err)
	}
	return gzBuf.Bytes(), nil
}
