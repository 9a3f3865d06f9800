package archive

import (
	"context"
	"os"
	"path/filepath"

	"github.com/mholt/archives"
	"github.com/pelletier/go-toml/v2"

	"github.com/mix-pkg/mix/pkg/errors"
	"github.com/mix-pkg/mix/pkg/fsutil"
)

// Pack builds a package archive from the contents of sourceDir. The manifest
// is serialized as TOML into the .MANIFEST entry; every file under sourceDir
// is archived with its relative path and current permission bits.
func Pack(ctx context.Context, sourceDir string, manifest Manifest, outPath string) error {
	if manifest.Name == "" {
		return errors.Wrap(errors.ErrInvalidManifest, "manifest requires a string field 'name'")
	}

	absSource, err := filepath.Abs(sourceDir)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve source directory %s", sourceDir)
	}

	manifestPath, err := writeManifestFile(manifest)
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(manifestPath) }()

	archiveFiles, err := archives.FilesFromDisk(ctx, nil, map[string]string{
		manifestPath: ManifestEntry,
		absSource + string(os.PathSeparator): "",
	})
	if err != nil {
		return errors.Wrap(err, "failed to collect files from source directory")
	}

	if err := fsutil.EnsureFileDir(outPath); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}
	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrapf(err, "failed to create archive %s", outPath)
	}
	defer func() {
		_ = out.Sync()
		_ = out.Close()
	}()

	format := archives.CompressedArchive{
		Compression: archives.Xz{},
		Archival:    archives.Tar{},
	}
	if err := format.Archive(ctx, out, archiveFiles); err != nil {
		return errors.Wrapf(err, "failed to write archive %s", outPath)
	}
	return nil
}

func writeManifestFile(manifest Manifest) (string, error) {
	body, err := toml.Marshal(manifest)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode manifest")
	}
	file, err := os.CreateTemp("", "mix-manifest-*")
	if err != nil {
		return "", errors.Wrap(err, "failed to create manifest file")
	}
	if _, err := file.Write(body); err != nil {
		_ = file.Close()
		_ = os.Remove(file.Name())
		return "", errors.Wrap(err, "failed to write manifest file")
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(file.Name())
		return "", errors.Wrap(err, "failed to close manifest file")
	}
	return file.Name(), nil
}
