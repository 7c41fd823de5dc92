package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arnisgo/arnis/pkg/anvil"
	"github.com/arnisgo/arnis/pkg/coord"
	"github.com/arnisgo/arnis/pkg/driver"
	"github.com/arnisgo/arnis/pkg/process"
)

// flagSet holds the raw generate-command flag values, bound to the command by
// bind and turned into a driver.Options by resolve. Splitting these two
// steps keeps bbox/spawn's "lon,lat,..." string parsing out of cobra's
// own flag-type machinery.
type flagSet struct {
	path             string
	bbox             string
	scale            float64
	groundLevel      int32
	terrain          bool
	interior         bool
	roof             bool
	fillGround       bool
	debug            bool
	floodfillTimeout float64
	spawn            string
	config           string
	workers          int
}

func newFlagSet() *flagSet {
	return &flagSet{scale: 1.0, groundLevel: -61, floodfillTimeout: 20}
}

func (f *flagSet) bind(cmd *cobra.Command, v *viper.Viper) {
	fl := cmd.Flags()
	fl.StringVar(&f.path, "path", "", "Minecraft world save directory to write into (required)")
	fl.StringVar(&f.bbox, "bbox", "", "min_lon,min_lat,max_lon,max_lat (required)")
	fl.Float64Var(&f.scale, "scale", f.scale, "world blocks per meter zoom factor")
	fl.Int32Var(&f.groundLevel, "ground-level", f.groundLevel, "flat base Y when terrain is disabled")
	fl.BoolVar(&f.terrain, "terrain", false, "enable the elevation subsystem")
	fl.BoolVar(&f.interior, "interior", false, "flood-fill and light building interiors")
	fl.BoolVar(&f.roof, "roof", false, "cap buildings with a roof layer")
	fl.BoolVar(&f.fillGround, "fill-ground", false, "accepted for compatibility; the ground layer is always generated")
	fl.BoolVar(&f.debug, "debug", false, "verbose logging and fatal UnknownBlock errors")
	fl.Float64Var(&f.floodfillTimeout, "floodfill-timeout", f.floodfillTimeout, "per-element flood-fill wall-clock timeout, seconds")
	fl.StringVar(&f.spawn, "spawn", "", "lat,lon spawn point, clamped to the selection bbox")
	fl.StringVar(&f.config, "config", "", "optional config file overlaying these flags (viper)")
	fl.IntVar(&f.workers, "workers", 0, "concurrent region units (0 = hardware_parallelism-1)")
	fl.String("overpass-endpoint", "", "override the Overpass API endpoint")
	fl.String("elevation-endpoint", "", "override the elevation tile URL template")

	v.SetConfigName("arnis")
	v.AddConfigPath(".")
}

func (f *flagSet) configPath() string {
	return f.config
}

// resolve validates and converts the bound flag values into a
// driver.Options. Only --path and --bbox are read through viper, so only
// those two can also come from a config file or the environment; every
// other option is taken from its flag. Malformed --bbox/--spawn values and a
// missing --path are ExitBadArgs failures the caller reports
// before ever invoking the driver.
func (f *flagSet) resolve(v *viper.Viper) (driver.Options, *anvil.SpawnPoint, error) {
	path := v.GetString("path")
	if path == "" {
		path = f.path
	}
	if path == "" {
		return driver.Options{}, nil, fmt.Errorf("cli: --path is required")
	}

	bboxStr := v.GetString("bbox")
	if bboxStr == "" {
		bboxStr = f.bbox
	}
	geoBBox, err := parseGeoBBox(bboxStr)
	if err != nil {
		return driver.Options{}, nil, err
	}

	var spawn *anvil.SpawnPoint
	spawnStr := f.spawn
	if spawnStr != "" {
		lat, lon, err := parseLatLon(spawnStr)
		if err != nil {
			return driver.Options{}, nil, fmt.Errorf("cli: --spawn: %w", err)
		}
		p := coord.Project(geoBBox, coord.GeoPoint{Lon: lon, Lat: lat}, spawnScale(geoBBox, f.scale))
		spawn = &anvil.SpawnPoint{X: p.X, Y: f.groundLevel, Z: p.Z}
	}

	opts := driver.Options{
		WorldPath: path,
		GeoBBox:   geoBBox,
		UserScale: f.scale,
		BaseY:     f.groundLevel,
		Terrain:   f.terrain,
		Options: process.Options{
			Interior:         f.interior,
			Roof:             f.roof,
			FillGround:       f.fillGround,
			Debug:            f.debug,
			FloodFillTimeout: time.Duration(f.floodfillTimeout * float64(time.Second)),
		},
		Workers: f.workers,
	}
	return opts, spawn, nil
}

// spawnScale mirrors the driver's own selection projection (the world
// extent is the bbox's edge length in meters divided by userScale), so a
// --spawn point lands on the same block the generated world anchors it
// at.
func spawnScale(g coord.GeoBBox, userScale float64) coord.Scale {
	if userScale <= 0 {
		userScale = 1.0
	}
	xMeters, zMeters := g.EdgeMeters()
	blocksX := int32(math.Round(xMeters / userScale))
	blocksZ := int32(math.Round(zMeters / userScale))
	if blocksX < 1 {
		blocksX = 1
	}
	if blocksZ < 1 {
		blocksZ = 1
	}
	return coord.DeriveScale(g, userScale, blocksX, blocksZ)
}

// parseGeoBBox parses "min_lon,min_lat,max_lon,max_lat".
func parseGeoBBox(s string) (coord.GeoBBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return coord.GeoBBox{}, fmt.Errorf("cli: --bbox must be min_lon,min_lat,max_lon,max_lat")
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return coord.GeoBBox{}, fmt.Errorf("cli: --bbox: %w", err)
		}
		vals[i] = f
	}
	return coord.GeoBBox{MinLon: vals[0], MinLat: vals[1], MaxLon: vals[2], MaxLat: vals[3]}, nil
}

// parseLatLon parses the "lat,lon" form the --spawn flag takes.
func parseLatLon(s string) (lat, lon float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected lat,lon")
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, err
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}
