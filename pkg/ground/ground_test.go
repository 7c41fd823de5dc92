package ground

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnisgo/arnis/pkg/coord"
)

func TestDecodeHeightFormula(t *testing.T) {
	// combined=0 -> -10000m exactly.
	assert.InDelta(t, -10000.0, decodeHeight(0, 0, 0), 0.0001)
	assert.InDelta(t, -9999.9, decodeHeight(0, 0, 1), 0.0001)
}

func TestDisabledAlwaysReturnsBaseY(t *testing.T) {
	g := Disabled(70)
	assert.False(t, g.Enabled())
	assert.Equal(t, int32(70), g.Level(0, 0))
	assert.Equal(t, int32(70), g.Level(500, -500))
	assert.Equal(t, int32(70), g.MinLevel())
	assert.Equal(t, int32(70), g.MaxLevel())
}

func TestNewDegradesToDisabledWhenEveryTileFails(t *testing.T) {
	fetcher := failingFetcher{}
	geo := coord.GeoBBox{MinLon: 0, MinLat: 0, MaxLon: 0.01, MaxLat: 0.01}
	world, err := coord.NewBBoxStrict(0, 0, 16, 16)
	require.NoError(t, err)

	g, warning := New(context.Background(), fetcher, geo, world, 1.0, 64)
	assert.Error(t, warning)
	assert.False(t, g.Enabled())
	assert.Equal(t, int32(64), g.Level(5, 5))
}

// gradientFetcher returns a tile whose every pixel encodes a height
// proportional to the tile's X index, producing strictly higher terrain
// to the east.
type gradientFetcher struct{ tileSize int }

func (f gradientFetcher) FetchTile(_ context.Context, _, tileX, _ int) ([]byte, int, error) {
	size := f.tileSize
	h := 100.0 + float64(tileX)*50.0
	combined := int64((h + 10000) / 0.1)
	r := byte((combined / 65536) % 256)
	g := byte((combined / 256) % 256)
	b := byte(combined % 256)
	rgb := make([]byte, size*size*3)
	for i := 0; i < size*size; i++ {
		rgb[i*3] = r
		rgb[i*3+1] = g
		rgb[i*3+2] = b
	}
	return rgb, size, nil
}

type failingFetcher struct{}

func (failingFetcher) FetchTile(_ context.Context, _, _, _ int) ([]byte, int, error) {
	return nil, 0, assert.AnError
}

func TestElevationIntegrationIsMonotonicEastward(t *testing.T) {
	fetcher := gradientFetcher{tileSize: 256}
	geo := coord.GeoBBox{MinLon: -1, MinLat: -1, MaxLon: 1, MaxLat: 1}
	world, err := coord.NewBBoxStrict(0, 0, 100, 100)
	require.NoError(t, err)

	g, warning := New(context.Background(), fetcher, geo, world, 1.0, 64)
	require.NoError(t, warning)
	require.True(t, g.Enabled())

	yAtZero := g.Level(0, 50)
	yAtFifty := g.Level(50, 50)
	assert.Greater(t, yAtFifty, yAtZero, "ground to the east must be higher given an eastward-increasing elevation gradient")
	assert.GreaterOrEqual(t, g.MaxLevel(), yAtFifty)
	assert.LessOrEqual(t, g.MinLevel(), yAtZero)
}
