package configs

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindProjectRoot walks up from start looking for .envcrypt.toml and returns
// the directory holding it. Without one, start itself is the root.
func FindProjectRoot(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", start, err)
	}

	current := abs
	for {
		info, err := os.Stat(filepath.Join(current, FileName))
		if err == nil && !info.IsDir() {
			return current, nil
		}
		if err != nil && !os.IsNotExist(err) {
			return "", fmt.Errorf("error checking for %s at %s: %w", FileName, current, err)
		}

		parent := filepath.Dir(current)
		if parent == current {
			return abs, nil
		}
		current = parent
	}
}
