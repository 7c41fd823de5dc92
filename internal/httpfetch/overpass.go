// Package httpfetch implements the generation core's three external
// collaborators: an Overpass OSM
// fetcher, a slippy-map elevation tile fetcher, and a world-directory
// provider. The two fetchers sit on plain net/http; there is no bespoke
// HTTP client layer to share for simple POST/GET-and-decode calls. The
// world-directory provider works on the local filesystem only.
package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arnisgo/arnis/pkg/coord"
)

// DefaultOverpassEndpoint is the public Overpass API interpreter.
const DefaultOverpassEndpoint = "https://overpass-api.de/api/interpreter"

// OverpassFetcher implements driver.OSMFetcher against a real Overpass
// API endpoint.
type OverpassFetcher struct {
	Endpoint string
	Client   *http.Client
}

// NewOverpassFetcher builds a fetcher with sensible request timeouts; an
// empty endpoint falls back to DefaultOverpassEndpoint.
func NewOverpassFetcher(endpoint string) *OverpassFetcher {
	if endpoint == "" {
		endpoint = DefaultOverpassEndpoint
	}
	return &OverpassFetcher{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 90 * time.Second},
	}
}

// FetchOSM queries every feature kind the element processors recognize
// inside bbox and returns the raw Overpass JSON body.
func (f *OverpassFetcher) FetchOSM(ctx context.Context, bbox coord.GeoBBox) ([]byte, error) {
	query := buildQuery(bbox)
	form := url.Values{"data": {query}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("httpfetch: build overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpfetch: overpass request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpfetch: read overpass response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpfetch: overpass returned %s: %s", resp.Status, truncate(body, 200))
	}
	return body, nil
}

// buildQuery assembles an Overpass QL query fetching the element kinds
// classify.go recognizes (multipolygon relations only for buildings,
// water and landuse), unfiltered by zoom (unlike the tiled map
// renderer this fetcher is grounded on, a single generation run has no
// zoom level to thin the query by).
func buildQuery(bbox coord.GeoBBox) string {
	box := fmt.Sprintf("%.7f,%.7f,%.7f,%.7f", bbox.MinLat, bbox.MinLon, bbox.MaxLat, bbox.MaxLon)
	var b strings.Builder
	b.WriteString("[out:json][timeout:180];\n(\n")
	for _, kv := range []string{
		`node["entrance"]`, `node["door"]`, `node["natural"="tree"]`, `node["amenity"]`,
		`way["building"]`, `relation["building"]["type"="multipolygon"]`,
		`way["highway"]`,
		`way["railway"]`, `way["bridge"]`,
		`way["waterway"]`,
		`way["natural"="water"]`, `relation["natural"="water"]["type"="multipolygon"]`,
		`way["barrier"]`,
		`way["landuse"]`, `relation["landuse"]["type"="multipolygon"]`,
		`way["leisure"]`, `way["natural"]`, `way["tourism"]`, `way["amenity"]`,
	} {
		fmt.Fprintf(&b, "  %s(%s);\n", kv, box)
	}
	b.WriteString(");\nout body;\n>;\nout skel qt;\n")
	return b.String()
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
