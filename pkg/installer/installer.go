// Package installer materializes an opened package archive onto the
// filesystem, preserving relative paths and recorded permission bits.
package installer

import (
	"archive/tar"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/mix-pkg/mix/pkg/archive"
	"github.com/mix-pkg/mix/pkg/errors"
	"github.com/mix-pkg/mix/pkg/fsutil"
)

// Installer places archive entries under a filesystem root. Paths resolve
// against the real root; there is no staging area and no rollback of files
// already placed when a later entry fails.
type Installer struct {
	root string
}

// New creates an installer targeting the given filesystem root.
func New(root string) *Installer {
	return &Installer{root: root}
}

// Install decompresses the archive stream and places every entry except the
// manifest. Directories are created if absent and then receive exactly the
// recorded permission bits; directories that already exist are left
// untouched so a re-install does not fail. Regular files are created
// exclusively: a pre-existing file at the target path fails the install
// rather than being overwritten. Links and every other entry type fail with
// errors.ErrUnsupportedEntry instead of being silently dropped.
func (inst *Installer) Install(r io.Reader) error {
	xzReader, err := xz.NewReader(r)
	if err != nil {
		return errors.Wrap(err, "failed to open xz stream")
	}

	tarReader := tar.NewReader(xzReader)
	for {
		header, err := tarReader.Next()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return errors.Wrap(err, "failed to read archive entry")
		}
		if header.Name == archive.ManifestEntry {
			continue
		}

		targetPath, err := inst.resolvePath(header.Name)
		if err != nil {
			return err
		}
		if targetPath == "" {
			continue
		}

		switch header.Typeflag {
		case tar.TypeDir:
			err = inst.placeDirectory(header, targetPath)
		case tar.TypeReg:
			err = inst.placeRegularFile(header, targetPath, tarReader)
		case tar.TypeSymlink, tar.TypeLink:
			err = errors.Wrapf(errors.ErrUnsupportedEntry, "link entry %s", header.Name)
		default:
			err = errors.Wrapf(errors.ErrUnsupportedEntry, "entry %s has type %d", header.Name, header.Typeflag)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// resolvePath validates an entry name and resolves it under the install
// root. An empty result means the entry should be skipped.
func (inst *Installer) resolvePath(name string) (string, error) {
	if name == "." || name == "./" {
		return "", nil
	}

	cleanPath := filepath.Clean(filepath.FromSlash(name))
	if cleanPath == "." || cleanPath == ".." || strings.HasPrefix(cleanPath, ".."+string(os.PathSeparator)) {
		return "", errors.Wrapf(errors.ErrInvalidEntryPath, "%s", name)
	}
	if filepath.IsAbs(cleanPath) {
		return "", errors.Wrapf(errors.ErrInvalidEntryPath, "%s", name)
	}

	targetPath := filepath.Join(inst.root, cleanPath)
	relPath, err := filepath.Rel(inst.root, targetPath)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return "", errors.Wrapf(errors.ErrInvalidEntryPath, "%s", name)
	}
	return targetPath, nil
}

func (inst *Installer) placeDirectory(header *tar.Header, targetPath string) error {
	info, err := os.Stat(targetPath)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("cannot create directory %s: a file is in the way", targetPath)
		}
		// Existing directory: permissions stay as they are.
		return nil
	}
	if !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to stat %s", targetPath)
	}

	if err := os.MkdirAll(targetPath, fsutil.DirModeDefault); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", targetPath)
	}
	if err := os.Chmod(targetPath, fsutil.SafeFileMode(header.Mode)); err != nil {
		return errors.Wrapf(err, "failed to set permissions on %s", targetPath)
	}
	return nil
}

func (inst *Installer) placeRegularFile(header *tar.Header, targetPath string, contents io.Reader) error {
	if err := fsutil.EnsureFileDir(targetPath); err != nil {
		return errors.Wrapf(err, "failed to create parent directory for %s", targetPath)
	}

	file, err := os.OpenFile(targetPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fsutil.SafeFileMode(header.Mode))
	if err != nil {
		return errors.Wrapf(err, "failed to create file %s", targetPath)
	}
	if _, err := io.Copy(file, contents); err != nil {
		_ = file.Close()
		return errors.Wrapf(err, "failed to write file %s", targetPath)
	}
	if err := file.Close(); err != nil {
		return errors.Wrapf(err, "failed to close file %s", targetPath)
	}
	// The create mode is filtered by the process umask; chmod to the exact
	// recorded bits, as placeDirectory does.
	if err := os.Chmod(targetPath, fsutil.SafeFileMode(header.Mode)); err != nil {
		return errors.Wrapf(err, "failed to set permissions on %s", targetPath)
	}
	return nil
}
