// Package store implements the package database: an ordered, name-unique
// collection of package records persisted as one CBOR blob, plus the on-disk
// cache directory holding imported package archives.
package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"

	"github.com/mix-pkg/mix/pkg/errors"
	"github.com/mix-pkg/mix/pkg/fsutil"
	"github.com/mix-pkg/mix/pkg/model"
)

// Store is the package database. It is the single canonical owner of every
// package record; selections hold shared handles into it.
type Store struct {
	packages []*model.Package
	cacheDir string
}

// snapshot is the serialized form of the store. The cache directory is
// deliberately excluded and must be re-supplied at load time.
type snapshot struct {
	Packages []*model.Package `cbor:"packages"`
}

// NewEmpty constructs a store with no packages and the given archive cache
// directory.
func NewEmpty(cacheDir string) *Store {
	return &Store{cacheDir: cacheDir}
}

// Load reads a store snapshot from path. A missing file is reported as
// errors.ErrFileNotFound so callers can offer to create an empty store;
// every other failure is terminal for the load.
func Load(path, cacheDir string) (*Store, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrFileNotFound, "package database %s", path)
		}
		return nil, errors.Wrapf(err, "failed to open package database %s", path)
	}
	defer func() { _ = file.Close() }()

	var snap snapshot
	if err := cbor.NewDecoder(file).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode package database %s: %v: %w",
			path, err, errors.ErrSerialization)
	}
	return &Store{packages: snap.Packages, cacheDir: cacheDir}, nil
}

// Save writes the full store to path as one CBOR blob. The write is atomic:
// the snapshot goes to a temporary file in the target directory which is
// then renamed over path.
func (s *Store) Save(path string) (err error) {
	if err := fsutil.EnsureFileDir(path); err != nil {
		return errors.Wrap(err, "failed to create database directory")
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(path), "mix-db-*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create temporary database file")
	}
	tmpPath := tmpFile.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := cbor.NewEncoder(tmpFile).Encode(snapshot{Packages: s.packages}); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to encode package database: %v: %w", err, errors.ErrSerialization)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return errors.Wrap(err, "failed to sync temporary database file")
	}
	if err := tmpFile.Close(); err != nil {
		return errors.Wrap(err, "failed to close temporary database file")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Wrapf(err, "failed to rename temporary database file to %s", path)
	}
	return nil
}

// CacheDir returns the archive cache directory the store resolves against.
func (s *Store) CacheDir() string {
	return s.cacheDir
}

// GetPackage returns the package with the given name, or nil if the store
// does not know it.
func (s *Store) GetPackage(name string) *model.Package {
	for _, pkg := range s.packages {
		if pkg.Name == name {
			return pkg
		}
	}
	return nil
}

// Packages returns the package handles in insertion order. The returned
// slice is a copy; the records are shared.
func (s *Store) Packages() []*model.Package {
	packages := make([]*model.Package, len(s.packages))
	copy(packages, s.packages)
	return packages
}

// Len returns the number of known packages.
func (s *Store) Len() int {
	return len(s.packages)
}

// CachePath resolves the canonical cache location for a package's archive.
func (s *Store) CachePath(pkg *model.Package) string {
	return filepath.Join(s.cacheDir, pkg.ArchiveFilename())
}

// ImportPackage brings a package into the store and its archive into the
// cache. Importing a package that is already present (same name and
// version) is a no-op. A package carrying a LocalPath has its archive
// copied into the cache under the canonical filename first; LocalPath is
// cleared once the copy completes. This is the sole path by which new
// packages enter the store.
func (s *Store) ImportPackage(pkg *model.Package) error {
	existing := s.GetPackage(pkg.Name)
	if existing != nil && existing.Equal(pkg) {
		// The import completes trivially; the local path is still spent.
		pkg.LocalPath = ""
		return nil
	}

	if pkg.LocalPath != "" {
		if err := s.cacheArchive(pkg); err != nil {
			return err
		}
		pkg.LocalPath = ""
	}

	if existing != nil {
		// Same name, different version: the store keeps one record per
		// name, so the existing handle is updated in place and stays
		// visible to every holder.
		existing.Version = pkg.Version
		existing.Files = pkg.Files
		return nil
	}
	s.packages = append(s.packages, pkg)
	return nil
}

// cacheArchive copies an externally-supplied archive into the cache.
func (s *Store) cacheArchive(pkg *model.Package) error {
	if err := fsutil.EnsureDir(s.cacheDir); err != nil {
		return errors.Wrap(err, "failed to create package cache directory")
	}

	src, err := os.Open(pkg.LocalPath)
	if err != nil {
		return errors.Wrapf(err, "failed to open archive %s", pkg.LocalPath)
	}
	defer func() { _ = src.Close() }()

	destPath := s.CachePath(pkg)
	dest, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return errors.Wrapf(err, "failed to create cached archive %s", destPath)
	}
	if _, err := io.Copy(dest, src); err != nil {
		_ = dest.Close()
		return errors.Wrapf(err, "failed to copy archive into cache at %s", destPath)
	}
	return dest.Close()
}

// OpenPackageTarball opens the cached archive for a package. It reports
// errors.ErrFileNotFound when the package was never imported or the cache
// file has been deleted out of band.
func (s *Store) OpenPackageTarball(pkg *model.Package) (io.ReadCloser, error) {
	path := s.CachePath(pkg)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrFileNotFound, "cached archive %s", path)
		}
		return nil, errors.Wrapf(err, "failed to open cached archive %s", path)
	}
	return file, nil
}

// Synchronize merges a list of known package names into the store. Names
// the store has not seen before are added as uninstalled entries with an
// unknown version; existing entries are left untouched.
func (s *Store) Synchronize(names []string) {
	for _, name := range names {
		if s.GetPackage(name) != nil {
			continue
		}
		s.packages = append(s.packages, &model.Package{
			Name:    name,
			Version: model.UnknownVersion(),
			State:   model.StateUninstalled,
		})
	}
}
