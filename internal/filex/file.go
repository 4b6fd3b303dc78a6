// Package filex contains filesystem helpers for the device data directory.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// MemoryDSN is the database path that keeps everything in memory.
const MemoryDSN = ":memory:"

// EnsureParentDir creates the directory that will hold the file at path and
// returns the absolute file path. MemoryDSN is returned unchanged.
func EnsureParentDir(path string) (string, error) {
	if path == MemoryDSN {
		return path, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", path, err)
	}

	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return abs, nil
}
