package ground

import "fmt"

// ElevationUnavailable reports that New could not fetch enough elevation
// tiles to build a height grid for the selection "not fatal"
// contract: New still returns a usable Disabled Ground alongside this as
// its warning, and callers log it rather than abort the run.
type ElevationUnavailable struct {
	Cause error
}

func (e *ElevationUnavailable) Error() string {
	return fmt.Sprintf("ground: elevation unavailable, falling back to flat: %v", e.Cause)
}

func (e *ElevationUnavailable) Unwrap() error { return e.Cause }
