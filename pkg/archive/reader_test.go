package archive_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mix-pkg/mix/pkg/archive"
	"github.com/mix-pkg/mix/pkg/errors"
	"github.com/mix-pkg/mix/pkg/model"
	"github.com/mix-pkg/mix/test/testutil"
)

func readArchive(t *testing.T, entries []testutil.Entry) (*model.Package, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pkg.tar.xz")
	testutil.WriteArchive(t, path, entries)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return archive.ReadPackage(bytes.NewReader(data))
}

func TestReadPackage(t *testing.T) {
	pkg, err := readArchive(t, []testutil.Entry{
		{Name: ".MANIFEST", Body: "name = \"foo\"\nversion = \"1.2.3\"\n"},
		{Name: "bin/"},
		{Name: "bin/foo", Body: "#!/bin/sh\n"},
		{Name: "share/doc/foo.txt", Body: "docs"},
	})
	require.NoError(t, err)

	assert.Equal(t, "foo", pkg.Name)
	assert.Equal(t, model.NewVersion(1, 2, 3), pkg.Version)
	assert.Equal(t, model.StateUninstalled, pkg.State)
	assert.Equal(t, []string{"bin/", "bin/foo", "share/doc/foo.txt"}, pkg.Files,
		"every non-manifest entry is collected in archive order")
}

func TestReadPackageManifestAfterFiles(t *testing.T) {
	pkg, err := readArchive(t, []testutil.Entry{
		{Name: "bin/foo", Body: "binary"},
		{Name: ".MANIFEST", Body: "name = \"foo\"\n"},
	})
	require.NoError(t, err)
	assert.Equal(t, "foo", pkg.Name)
	assert.Equal(t, []string{"bin/foo"}, pkg.Files)
}

func TestReadPackageVersionDegradesToUnknown(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
	}{
		{"no version key", "name = \"foo\"\n"},
		{"garbage version", "name = \"foo\"\nversion = \"best release ever\"\n"},
		{"version wrong type", "name = \"foo\"\nversion = 3\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pkg, err := readArchive(t, []testutil.Entry{{Name: ".MANIFEST", Body: tc.manifest}})
			require.NoError(t, err)
			assert.Equal(t, model.UnknownVersion(), pkg.Version)
		})
	}
}

func TestReadPackageMissingManifest(t *testing.T) {
	_, err := readArchive(t, []testutil.Entry{
		{Name: "bin/foo", Body: "binary"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidPackage)
}

func TestReadPackageManifestMissingName(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
	}{
		{"no name key", "version = \"1.0.0\"\n"},
		{"name wrong type", "name = 42\n"},
		{"name empty", "name = \"\"\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := readArchive(t, []testutil.Entry{{Name: ".MANIFEST", Body: tc.manifest}})
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrInvalidManifest)
		})
	}
}

func TestReadPackageManifestUnparseable(t *testing.T) {
	_, err := readArchive(t, []testutil.Entry{
		{Name: ".MANIFEST", Body: "this is = = not toml ["},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrManifestParse)
}

func TestReadPackageGarbageStream(t *testing.T) {
	_, err := archive.ReadPackage(bytes.NewReader([]byte("definitely not xz")))
	assert.Error(t, err)
}
