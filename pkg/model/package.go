// Package model provides the data structures shared across the mix package
// manager: package records, versions, installation states and selections.
package model

import "fmt"

// InstallState describes how a package relates to the local system.
type InstallState string

const (
	// StateManual marks a package explicitly requested by a user. It is
	// never removed automatically.
	StateManual InstallState = "manual"
	// StateDependency marks a package pulled in to satisfy another
	// package. It becomes removable once nothing installed depends on it.
	StateDependency InstallState = "dependency"
	// StateUninstalled marks a package that is known but not materialized
	// on disk.
	StateUninstalled InstallState = "uninstalled"
)

func (s InstallState) String() string {
	switch s {
	case StateManual:
		return "Manually Installed"
	case StateDependency:
		return "Dependency Installed"
	case StateUninstalled:
		return "Not Installed"
	}
	return string(s)
}

// Package is the record for one piece of software known to the store.
// Handles to the same record are shared; the store is the canonical owner.
type Package struct {
	Name    string       `cbor:"name"`
	Version Version      `cbor:"version"`
	State   InstallState `cbor:"state"`
	// Files lists the paths the package owns, in archive order. Empty
	// until the package archive has been read.
	Files []string `cbor:"files"`

	// LocalPath points at an archive outside the cache while an import is
	// in flight. It is cleared when the import completes and is never
	// serialized.
	LocalPath string `cbor:"-"`
}

// Equal reports package identity, which is (name, version) only. State,
// files and local path may differ between equal packages; cache membership
// checks rely on this.
func (p *Package) Equal(other *Package) bool {
	if other == nil {
		return false
	}
	return p.Name == other.Name && p.Version.Equal(other.Version)
}

// ArchiveFilename returns the canonical cache filename for the package.
func (p *Package) ArchiveFilename() string {
	version := "unknown"
	if p.Version.Known {
		version = p.Version.String()
	}
	return fmt.Sprintf("%s-%s.tar.xz", p.Name, version)
}

func (p *Package) String() string {
	return fmt.Sprintf("%s %s", p.Name, p.Version)
}

// Selections is the todo list computed for one request: the disjoint sets of
// packages to install, remove, upgrade and downgrade. A package appears in
// at most one list.
type Selections struct {
	Install   []*Package
	Remove    []*Package
	Upgrade   []*Package
	Downgrade []*Package
}
