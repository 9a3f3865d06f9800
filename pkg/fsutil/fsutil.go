// Package fsutil provides filesystem helpers and the permission-mode
// constants used consistently across the package manager.
package fsutil

import (
	"os"
	"path/filepath"
)

// File and directory permission constants.
const (
	// FileModeMask is the full permission mask carried in archive headers.
	FileModeMask = 0o777

	// FileModeDefault is the default mode for regular files.
	FileModeDefault = 0o644
	// DirModeDefault is the default mode for directories.
	DirModeDefault = 0o755
)

// EnsureDir creates a directory and all necessary parent directories with
// default permissions if they don't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, DirModeDefault)
}

// EnsureFileDir creates the parent directory of a file path if it doesn't
// exist.
func EnsureFileDir(filePath string) error {
	return EnsureDir(filepath.Dir(filePath))
}

// SafeFileMode converts a tar header mode to an os.FileMode, falling back to
// FileModeDefault when the recorded mode is out of bounds.
func SafeFileMode(mode int64) os.FileMode {
	if mode >= 0 && mode <= FileModeMask {
		return os.FileMode(mode)
	}
	return FileModeDefault
}
