package driver

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnisgo/arnis/pkg/arnistest"
	"github.com/arnisgo/arnis/pkg/coord"
)

func testOpts(worldPath string, geo coord.GeoBBox) Options {
	return Options{
		WorldPath: worldPath,
		GeoBBox:   geo,
		UserScale: 1.0,
		BaseY:     -62,
		Workers:   2,
	}
}

// TestGenerateFlatWorldSanity: an empty OSM document
// over a small bbox with terrain disabled writes exactly one region file.
func TestGenerateFlatWorldSanity(t *testing.T) {
	dir := t.TempDir()
	geo := coord.GeoBBox{MinLon: 0, MinLat: 0, MaxLon: 0.001, MaxLat: 0.001}
	deps := Dependencies{
		OSM:      arnistest.StaticOSMFetcher{Body: []byte(`{"elements":[]}`)},
		WorldDir: arnistest.TempWorldDir{},
	}
	run := NewRun(testOpts(dir, geo), time.Now())

	summary, err := Generate(context.Background(), run, deps, zerolog.Nop(), nil)
	require.NoError(t, err)
	assert.False(t, summary.Failed())
	assert.Equal(t, 1, summary.RegionsWritten)

	entries, err := os.ReadDir(filepath.Join(dir, "region"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

// TestGenerateHighwayAcrossLanduse exercises, at the driver level,
// a forest polygon and a crossing primary highway in
// one synthetic document must still produce one clean region write with
// no per-region error. Generate's public surface only reports the summary,
// not written block content, so the actual "no tree lands on the highway
// strip" assertion is covered at the dispatch level by
// TestProcessTreeSkipsHighwayCell and TestProcessAreaDecorationSkipsHighwayCell
// in pkg/process, against this same forest-plus-crossing-highway shape.
func TestGenerateHighwayAcrossLanduse(t *testing.T) {
	dir := t.TempDir()
	geo := coord.GeoBBox{MinLon: 0, MinLat: 0, MaxLon: 0.002, MaxLat: 0.002}
	doc := []byte(`{"elements":[
		{"type":"node","id":1,"lat":0.0001,"lon":0.0001},
		{"type":"node","id":2,"lat":0.0001,"lon":0.0018},
		{"type":"node","id":3,"lat":0.0018,"lon":0.0018},
		{"type":"node","id":4,"lat":0.0018,"lon":0.0001},
		{"type":"way","id":10,"nodes":[1,2,3,4,1],"tags":{"landuse":"forest"}},
		{"type":"node","id":5,"lat":0.0009,"lon":0.0001},
		{"type":"node","id":6,"lat":0.0009,"lon":0.0018},
		{"type":"way","id":11,"nodes":[5,6],"tags":{"highway":"primary"}}
	]}`)
	deps := Dependencies{
		OSM:      arnistest.StaticOSMFetcher{Body: doc},
		WorldDir: arnistest.TempWorldDir{},
	}
	run := NewRun(testOpts(dir, geo), time.Now())

	summary, err := Generate(context.Background(), run, deps, zerolog.Nop(), nil)
	require.NoError(t, err)
	assert.Empty(t, summary.Errors)
	assert.Equal(t, 1, summary.RegionsWritten)
}

// TestGenerateDeterministic: running the same
// options over the same inputs twice, with a different worker count,
// yields byte-identical region output (modulo the header's per-chunk
// timestamp table, which the writer fills from the wall clock on every
// run and which this test therefore skips).
func TestGenerateDeterministic(t *testing.T) {
	geo := coord.GeoBBox{MinLon: 0, MinLat: 0, MaxLon: 0.012, MaxLat: 0.001}
	doc := []byte(`{"elements":[
		{"type":"node","id":1,"lat":0.0004,"lon":0.005},
		{"type":"node","id":2,"lat":0.0004,"lon":0.0065},
		{"type":"node","id":3,"lat":0.0006,"lon":0.0065},
		{"type":"node","id":4,"lat":0.0006,"lon":0.005},
		{"type":"way","id":42,"nodes":[1,2,3,4,1],"tags":{"building":"house","building:levels":"2"}}
	]}`)

	run1Dir := t.TempDir()
	deps1 := Dependencies{OSM: arnistest.StaticOSMFetcher{Body: doc}, WorldDir: arnistest.TempWorldDir{}}
	opts1 := testOpts(run1Dir, geo)
	opts1.Workers = 4
	_, err := Generate(context.Background(), NewRun(opts1, time.Now()), deps1, zerolog.Nop(), nil)
	require.NoError(t, err)

	run2Dir := t.TempDir()
	deps2 := Dependencies{OSM: arnistest.StaticOSMFetcher{Body: doc}, WorldDir: arnistest.TempWorldDir{}}
	opts2 := testOpts(run2Dir, geo)
	opts2.Workers = 1
	_, err = Generate(context.Background(), NewRun(opts2, time.Now()), deps2, zerolog.Nop(), nil)
	require.NoError(t, err)

	files1, err := os.ReadDir(filepath.Join(run1Dir, "region"))
	require.NoError(t, err)
	files2, err := os.ReadDir(filepath.Join(run2Dir, "region"))
	require.NoError(t, err)
	require.Equal(t, len(files1), len(files2))

	for _, f := range files1 {
		b1, err := os.ReadFile(filepath.Join(run1Dir, "region", f.Name()))
		require.NoError(t, err)
		b2, err := os.ReadFile(filepath.Join(run2Dir, "region", f.Name()))
		require.NoError(t, err, "missing counterpart region file %s", f.Name())

		// The chunk-timestamp table (the second 4 KiB) is the only
		// legitimately time-varying region; everything else
		// (header offsets and every chunk payload) must match exactly.
		require.True(t, len(b1) >= 2*sectorSizeForTest && len(b1) == len(b2))
		assert.True(t, bytes.Equal(b1[:sectorSizeForTest], b2[:sectorSizeForTest]), "location table must be deterministic for %s", f.Name())
		assert.True(t, bytes.Equal(b1[2*sectorSizeForTest:], b2[2*sectorSizeForTest:]), "chunk payloads must be byte-identical for %s", f.Name())
	}
}

const sectorSizeForTest = 4096
