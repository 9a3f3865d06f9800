// Package archive reads and writes the mix package container format: an
// xz-compressed tar archive carrying a .MANIFEST entry with the package
// metadata next to the files the package owns.
package archive

import (
	"archive/tar"
	stderrors "errors"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/ulikunitz/xz"

	"github.com/mix-pkg/mix/pkg/errors"
	"github.com/mix-pkg/mix/pkg/model"
)

// ManifestEntry is the archive entry holding the package metadata.
const ManifestEntry = ".MANIFEST"

// maxManifestSize bounds how much manifest text is read from an archive.
const maxManifestSize = 1 << 20

// Manifest is the metadata document stored in a package archive. The body is
// a TOML table; name is the only required key.
type Manifest struct {
	Name    string `toml:"name"`
	Version string `toml:"version,omitempty"`
}

// ReadPackage decompresses an archive stream and interprets it as a package,
// without touching the filesystem. The archive must contain a .MANIFEST
// entry whose body names the package; every other entry path is collected
// into the package's file list in archive order. The resulting package is
// uninstalled and keeps an unknown version unless the manifest provides one.
func ReadPackage(r io.Reader) (*model.Package, error) {
	xzReader, err := xz.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open xz stream")
	}

	var (
		files        []string
		manifestBody []byte
	)
	tarReader := tar.NewReader(xzReader)
	for {
		header, err := tarReader.Next()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read archive entry")
		}
		if header.Name == ManifestEntry {
			manifestBody, err = io.ReadAll(io.LimitReader(tarReader, maxManifestSize))
			if err != nil {
				return nil, errors.Wrap(err, "failed to read manifest body")
			}
			continue
		}
		files = append(files, header.Name)
	}

	if manifestBody == nil {
		return nil, errors.ErrInvalidPackage
	}
	manifest, err := parseManifest(manifestBody)
	if err != nil {
		return nil, err
	}

	return &model.Package{
		Name:    manifest.Name,
		Version: model.ParseVersion(manifest.Version),
		State:   model.StateUninstalled,
		Files:   files,
	}, nil
}

// parseManifest decodes the manifest body. An undecodable body is a parse
// error; a decodable body missing a string name is an invalid manifest.
func parseManifest(body []byte) (*Manifest, error) {
	var document map[string]interface{}
	if err := toml.Unmarshal(body, &document); err != nil {
		return nil, errors.Wrapf(errors.ErrManifestParse, "%v", err)
	}

	name, ok := document["name"].(string)
	if !ok || name == "" {
		return nil, errors.Wrap(errors.ErrInvalidManifest, "manifest requires a string field 'name'")
	}

	manifest := &Manifest{Name: name}
	if version, ok := document["version"].(string); ok {
		manifest.Version = version
	}
	return manifest, nil
}
