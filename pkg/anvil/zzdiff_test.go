package anvil

import (
	"fmt"
	"testing"

	"github.com/arnisgo/arnis/pkg/block"
	"github.com/arnisgo/arnis/pkg/coord"
	"github.com/arnisgo/arnis/pkg/store"
)

func TestDiffDump(t *testing.T) {
	region := store.NewRegion(0, 0)
	chunk := region.Chunk(coord.ChunkPos{X: 0, Z: 0})
	chunk.Section(4).SetBlockAt(coord.SectionIndex(1, 2, 3), block.Stone)
	chunk.AddSign(store.SignEntity{X: 3, Y: 70, Z: 3, Lines: [4]string{"one", "two", "", ""}, Rotation: 4})

	first, err := EncodeChunk(chunk, 64, nil)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := decodeChunkRoot(first)
	if err != nil {
		t.Fatal(err)
	}
	second, err := encodeRoot(*decoded)
	if err != nil {
		t.Fatal(err)
	}
	n := len(first)
	if len(second) < n {
		n = len(second)
	}
	for i := 0; i < n; i++ {
		if first[i] != second[i] {
			fmt.Printf("diff at %d: first=%x second=%x\n", i, first[i-5:i+20], second[i-5:i+20])
			break
		}
	}
	fmt.Printf("len first=%d second=%d\n", len(first), len(second))
}
