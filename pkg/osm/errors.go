package osm

import "fmt"

// OsmFetchError reports that the OSM data collaborator
// could not retrieve a document for the requested bbox.
type OsmFetchError struct {
	Cause error
}

func (e *OsmFetchError) Error() string {
	return fmt.Sprintf("osm: fetch failed: %v", e.Cause)
}

func (e *OsmFetchError) Unwrap() error { return e.Cause }

// OsmParseError reports that a fetched OSM document could not be decoded,
// step. It is fatal to the run: there is no partial
// element set to recover from a document that doesn't parse.
type OsmParseError struct {
	Cause error
}

func (e *OsmParseError) Error() string {
	return fmt.Sprintf("osm: parse failed: %v", e.Cause)
}

func (e *OsmParseError) Unwrap() error { return e.Cause }
