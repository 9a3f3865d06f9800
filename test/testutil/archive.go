// Package testutil provides helpers for building package archive fixtures
// in tests.
package testutil

import (
	"archive/tar"
	"os"
	"path/filepath"
	"testing"

	"github.com/ulikunitz/xz"
)

// Entry describes one tar entry of a generated test archive.
type Entry struct {
	Name string
	Body string
	Mode int64
	// Typeflag defaults to tar.TypeReg, or tar.TypeDir when Name ends
	// with a slash.
	Typeflag byte
	Linkname string
}

// WriteArchive writes a .tar.xz archive with the given entries to path.
func WriteArchive(t *testing.T, path string, entries []Entry) {
	t.Helper()

	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create archive %s: %v", path, err)
	}
	defer func() { _ = file.Close() }()

	xzWriter, err := xz.NewWriter(file)
	if err != nil {
		t.Fatalf("failed to create xz writer: %v", err)
	}
	tarWriter := tar.NewWriter(xzWriter)

	for _, entry := range entries {
		header := &tar.Header{
			Name:     entry.Name,
			Mode:     entry.Mode,
			Size:     int64(len(entry.Body)),
			Typeflag: entry.Typeflag,
			Linkname: entry.Linkname,
		}
		if header.Typeflag == 0 {
			header.Typeflag = tar.TypeReg
			if entry.Name[len(entry.Name)-1] == '/' {
				header.Typeflag = tar.TypeDir
				header.Size = 0
			}
		}
		if header.Mode == 0 {
			header.Mode = 0o644
			if header.Typeflag == tar.TypeDir {
				header.Mode = 0o755
			}
		}
		if err := tarWriter.WriteHeader(header); err != nil {
			t.Fatalf("failed to write header for %s: %v", entry.Name, err)
		}
		if header.Typeflag == tar.TypeReg && entry.Body != "" {
			if _, err := tarWriter.Write([]byte(entry.Body)); err != nil {
				t.Fatalf("failed to write body for %s: %v", entry.Name, err)
			}
		}
	}

	if err := tarWriter.Close(); err != nil {
		t.Fatalf("failed to close tar writer: %v", err)
	}
	if err := xzWriter.Close(); err != nil {
		t.Fatalf("failed to close xz writer: %v", err)
	}
}

// WritePackageArchive writes a minimal valid package archive named after
// the manifest body and returns its path.
func WritePackageArchive(t *testing.T, dir, filename, manifest string, entries []Entry) string {
	t.Helper()
	path := filepath.Join(dir, filename)
	all := append([]Entry{{Name: ".MANIFEST", Body: manifest}}, entries...)
	WriteArchive(t, path, all)
	return path
}
