package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlockEquality(t *testing.T) {
	a := Stairs("oak", "north")
	b := Stairs("oak", "north")
	c := Stairs("oak", "south")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(Air))
}

func TestBlockWithOverwrites(t *testing.T) {
	a := Slab("oak", "bottom")
	b := a.With("type", "top")

	v, ok := b.Property("type")
	assert.True(t, ok)
	assert.Equal(t, "top", v)

	// Original is unaffected (immutable).
	v, ok = a.Property("type")
	assert.True(t, ok)
	assert.Equal(t, "bottom", v)
}

func TestNamespacedID(t *testing.T) {
	assert.Equal(t, "minecraft:air", Air.NamespacedID())
	assert.Equal(t, "minecraft:oak_stairs", Stairs("oak", "east").NamespacedID())
}

func TestKeyIsStableAcrossPropertyOrder(t *testing.T) {
	a := New("x").With("a", "1").With("b", "2")
	b := New("x").With("b", "2").With("a", "1")
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())
}

func TestIsAir(t *testing.T) {
	assert.True(t, Air.IsAir())
	assert.False(t, Stone.IsAir())
}

func TestPaletteDedup(t *testing.T) {
	p := NewPalette()
	i0 := p.Index(Air)
	i1 := p.Index(Stone)
	i2 := p.Index(Air)

	assert.Equal(t, i0, i2)
	assert.NotEqual(t, i0, i1)
	assert.Equal(t, 2, p.Len())
}

func TestBitWidthFor(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 4}, {1, 4}, {2, 4}, {16, 4},
		{17, 5}, {32, 5}, {33, 6},
		{256, 8}, {257, 9},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BitWidthFor(tt.n), "BitWidthFor(%d)", tt.n)
	}
}
