package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackageEqual(t *testing.T) {
	base := &Package{Name: "foo", Version: NewVersion(1, 0, 0), State: StateManual}

	sameIdentity := &Package{
		Name:      "foo",
		Version:   NewVersion(1, 0, 0),
		State:     StateUninstalled,
		Files:     []string{"bin/foo"},
		LocalPath: "/tmp/foo.tar.xz",
	}
	assert.True(t, base.Equal(sameIdentity), "state, files and local path must not affect identity")

	assert.False(t, base.Equal(&Package{Name: "foo", Version: NewVersion(1, 0, 1)}))
	assert.False(t, base.Equal(&Package{Name: "bar", Version: NewVersion(1, 0, 0)}))
	assert.False(t, base.Equal(nil))
}

func TestPackageArchiveFilename(t *testing.T) {
	pkg := &Package{Name: "foo", Version: NewVersion(1, 2, 3)}
	assert.Equal(t, "foo-1.2.3.tar.xz", pkg.ArchiveFilename())

	unknown := &Package{Name: "bar"}
	assert.Equal(t, "bar-unknown.tar.xz", unknown.ArchiveFilename())
}

func TestInstallStateString(t *testing.T) {
	assert.Equal(t, "Manually Installed", StateManual.String())
	assert.Equal(t, "Dependency Installed", StateDependency.String())
	assert.Equal(t, "Not Installed", StateUninstalled.String())
}
