package driver

import (
	"os"
	"path/filepath"
)

// writeLevelDat writes the patched level.dat bytes to worldPath/level.dat.
func writeLevelDat(worldPath string, data []byte) error {
	if err := os.MkdirAll(worldPath, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(worldPath, "level.dat"), data, 0o644)
}
