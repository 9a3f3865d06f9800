// Package errors defines the error taxonomy shared across the mix package
// manager. Sentinel errors are compared with errors.Is; callers add context
// with Wrap and Wrapf.
package errors

import "fmt"

// Common error types.
var (
	// Resolution errors.
	ErrPackageNotFound     = fmt.Errorf("package not found")
	ErrPackageNotInstalled = fmt.Errorf("package is not installed")

	// Store errors.
	ErrFileNotFound  = fmt.Errorf("file not found")
	ErrSerialization = fmt.Errorf("package store serialization failed")

	// Archive errors.
	ErrInvalidPackage   = fmt.Errorf("archive is missing its .MANIFEST entry")
	ErrInvalidManifest  = fmt.Errorf("invalid package manifest")
	ErrManifestParse    = fmt.Errorf("failed to parse package manifest")
	ErrUnsupportedEntry = fmt.Errorf("unsupported archive entry type")
	ErrInvalidEntryPath = fmt.Errorf("invalid path in archive")

	// Transaction errors.
	ErrRequest = fmt.Errorf("request failed")
	ErrAborted = fmt.Errorf("operation aborted")

	// Config errors.
	ErrConfigValidation = fmt.Errorf("invalid configuration")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
