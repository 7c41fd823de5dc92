package osm

import "encoding/json"

// rawDocument is the shape of the decoded OSM JSON document the fetcher
// hands in (an Overpass-style elements array). There is no domain library
// for this Overpass-specific dialect in the wired stack, so this one
// boundary layer stays on plain encoding/json (documented in DESIGN.md);
// everything downstream goes through orb.
type rawDocument struct {
	Elements []rawElement `json:"elements"`
}

type rawElement struct {
	Type    string            `json:"type"`
	ID      int64             `json:"id"`
	Lat     float64           `json:"lat"`
	Lon     float64           `json:"lon"`
	Nodes   []int64           `json:"nodes"`
	Members []rawMember       `json:"members"`
	Tags    map[string]string `json:"tags"`
}

type rawMember struct {
	Type string `json:"type"`
	Ref  int64  `json:"ref"`
	Role string `json:"role"`
}

// decodeDocument parses the raw OSM JSON bytes step.
func decodeDocument(raw []byte) (rawDocument, error) {
	var doc rawDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return rawDocument{}, &OsmParseError{Cause: err}
	}
	return doc, nil
}
