package cli

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagSetResolveRequiresPathAndBBox(t *testing.T) {
	f := newFlagSet()
	v := viper.New()
	_, _, err := f.resolve(v)
	require.Error(t, err)

	f.path = "/tmp/world"
	_, _, err = f.resolve(v)
	require.Error(t, err)

	f.bbox = "not,a,valid,bbox"
	_, _, err = f.resolve(v)
	require.Error(t, err)
}

func TestFlagSetResolveSuccess(t *testing.T) {
	f := newFlagSet()
	f.path = "/tmp/world"
	f.bbox = "-0.1,51.5,0.1,51.6"
	v := viper.New()

	opts, spawn, err := f.resolve(v)
	require.NoError(t, err)
	assert.Nil(t, spawn)
	assert.Equal(t, "/tmp/world", opts.WorldPath)
	assert.Equal(t, -0.1, opts.GeoBBox.MinLon)
	assert.Equal(t, 51.6, opts.GeoBBox.MaxLat)
	assert.Equal(t, 1.0, opts.UserScale)
	assert.Equal(t, int32(-61), opts.BaseY)
}

func TestFlagSetResolveSpawnProjectsToWorldXZ(t *testing.T) {
	f := newFlagSet()
	f.path = "/tmp/world"
	f.bbox = "-0.1,51.5,0.1,51.6"
	f.spawn = "51.55,0.0"
	v := viper.New()

	_, spawn, err := f.resolve(v)
	require.NoError(t, err)
	require.NotNil(t, spawn)
	assert.Equal(t, f.groundLevel, spawn.Y)

	// The spawn sits mid-bbox, so it must project well into the world's
	// interior, not collapse to the north-west anchor.
	assert.Greater(t, spawn.X, int32(1000))
	assert.Greater(t, spawn.Z, int32(1000))
}

func TestFlagSetResolvePrefersConfigOverFlagDefaults(t *testing.T) {
	f := newFlagSet()
	f.bbox = "-0.1,51.5,0.1,51.6"
	v := viper.New()
	v.Set("path", "/from/config")

	opts, _, err := f.resolve(v)
	require.NoError(t, err)
	assert.Equal(t, "/from/config", opts.WorldPath)
}

func TestParseGeoBBox(t *testing.T) {
	bb, err := parseGeoBBox("-0.1,51.5,0.1,51.6")
	require.NoError(t, err)
	assert.Equal(t, -0.1, bb.MinLon)
	assert.Equal(t, 51.5, bb.MinLat)
	assert.Equal(t, 0.1, bb.MaxLon)
	assert.Equal(t, 51.6, bb.MaxLat)

	_, err = parseGeoBBox("1,2,3")
	assert.Error(t, err)

	_, err = parseGeoBBox("a,b,c,d")
	assert.Error(t, err)
}

func TestParseLatLon(t *testing.T) {
	lat, lon, err := parseLatLon("51.5, 0.1")
	require.NoError(t, err)
	assert.Equal(t, 51.5, lat)
	assert.Equal(t, 0.1, lon)

	_, _, err = parseLatLon("51.5")
	assert.Error(t, err)
}
