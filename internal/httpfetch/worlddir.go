package httpfetch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
)

// LocalWorldDir implements driver.WorldDirProvider against a real
// Minecraft save directory on disk.
type LocalWorldDir struct{}

// Prepare creates path if it doesn't exist yet and reads any existing
// level.dat so the driver can merge into it rather than overwrite it.
func (LocalWorldDir) Prepare(ctx context.Context, path string) (existingLevelDat []byte, isNewWorld bool, err error) {
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		if mkErr := os.MkdirAll(path, 0o755); mkErr != nil {
			return nil, false, mkErr
		}
		return nil, true, nil
	} else if statErr != nil {
		return nil, false, statErr
	}

	data, readErr := os.ReadFile(filepath.Join(path, "level.dat"))
	if errors.Is(readErr, os.ErrNotExist) {
		return nil, true, nil
	}
	if readErr != nil {
		return nil, false, readErr
	}
	return data, false, nil
}
