package httpfetch

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultElevationTemplate is a Mapbox Terrain-RGB-compatible tile source;
// its {z}/{x}/{y} PNG payload already encodes height the way
// ground.decodeHeight expects (R*65536 + G*256 + B, scaled by 0.1,
// offset -10000).
const DefaultElevationTemplate = "https://elevation-tiles-prod.s3.amazonaws.com/terrarium/{z}/{x}/{y}.png"

// ElevationFetcher implements ground.TileFetcher against a slippy-map PNG
// elevation tile source.
type ElevationFetcher struct {
	URLTemplate string
	Client      *http.Client
}

// NewElevationFetcher builds a fetcher against template, falling back to
// DefaultElevationTemplate when empty.
func NewElevationFetcher(template string) *ElevationFetcher {
	if template == "" {
		template = DefaultElevationTemplate
	}
	return &ElevationFetcher{
		URLTemplate: template,
		Client:      &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchTile downloads and decodes the PNG tile at (zoom, tileX, tileY),
// returning row-major RGB triples in the form ground.TileFetcher expects.
func (f *ElevationFetcher) FetchTile(ctx context.Context, zoom, tileX, tileY int) ([]byte, int, error) {
	tileURL := strings.NewReplacer(
		"{z}", strconv.Itoa(zoom),
		"{x}", strconv.Itoa(tileX),
		"{y}", strconv.Itoa(tileY),
	).Replace(f.URLTemplate)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tileURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("httpfetch: build tile request: %w", err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("httpfetch: tile request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("httpfetch: tile %d/%d/%d returned %s", zoom, tileX, tileY, resp.Status)
	}

	img, err := png.Decode(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("httpfetch: decode tile png: %w", err)
	}
	return rgbBytes(img), img.Bounds().Dx(), nil
}

// rgbBytes flattens img into row-major 3-byte RGB triples, dropping alpha,
// the format ground.fetchHeights expects.
func rgbBytes(img image.Image) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]byte, 0, w*h*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			out = append(out, byte(r>>8), byte(g>>8), byte(bl>>8))
		}
	}
	return out
}
