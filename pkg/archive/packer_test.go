package archive_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mix-pkg/mix/pkg/archive"
	"github.com/mix-pkg/mix/pkg/errors"
	"github.com/mix-pkg/mix/pkg/model"
)

func TestPackReadRoundTrip(t *testing.T) {
	tempDir := t.TempDir()
	sourceDir := filepath.Join(tempDir, "source")
	require.NoError(t, os.MkdirAll(filepath.Join(sourceDir, "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sourceDir, "bin", "foo"), []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sourceDir, "README"), []byte("hello"), 0o644))

	outPath := filepath.Join(tempDir, "foo-1.0.0.tar.xz")
	manifest := archive.Manifest{Name: "foo", Version: "1.0.0"}
	require.NoError(t, archive.Pack(context.Background(), sourceDir, manifest, outPath))

	file, err := os.Open(outPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	pkg, err := archive.ReadPackage(file)
	require.NoError(t, err)
	assert.Equal(t, "foo", pkg.Name)
	assert.Equal(t, model.NewVersion(1, 0, 0), pkg.Version)

	var hasBinFoo, hasReadme bool
	for _, path := range pkg.Files {
		switch filepath.ToSlash(path) {
		case "bin/foo":
			hasBinFoo = true
		case "README":
			hasReadme = true
		}
	}
	assert.True(t, hasBinFoo, "bin/foo missing from %v", pkg.Files)
	assert.True(t, hasReadme, "README missing from %v", pkg.Files)
}

func TestPackRequiresName(t *testing.T) {
	err := archive.Pack(context.Background(), t.TempDir(), archive.Manifest{}, filepath.Join(t.TempDir(), "out.tar.xz"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidManifest)
}
