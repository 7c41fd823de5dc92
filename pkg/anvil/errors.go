package anvil

import "fmt"

// RegionWriteError reports that a single region failed to write. It
// does not abort peer regions, and the driver
// surfaces it at the end of the run.
type RegionWriteError struct {
	RX, RZ int32
	Cause  error
}

func (e *RegionWriteError) Error() string {
	return fmt.Sprintf("write region (%d,%d): %v", e.RX, e.RZ, e.Cause)
}

func (e *RegionWriteError) Unwrap() error { return e.Cause }

// RegionReadError reports that an existing region file could not be read
// back before merging: unlike RegionWriteError this is not fatal
// to the region — the writer proceeds as though the region had no prior
// data, so the caller should log it as a warning rather than abort.
type RegionReadError struct {
	RX, RZ int32
	Cause  error
}

func (e *RegionReadError) Error() string {
	return fmt.Sprintf("read existing region (%d,%d): %v", e.RX, e.RZ, e.Cause)
}

func (e *RegionReadError) Unwrap() error { return e.Cause }
