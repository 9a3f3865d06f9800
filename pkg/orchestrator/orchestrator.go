// Package orchestrator ties the store, selection, archive and installer
// layers together: one transaction per invocation, resolve then confirm then
// apply. Persisting the store afterwards stays with the caller.
package orchestrator

import (
	"context"
	"io"
	"os"

	"github.com/mix-pkg/mix/pkg/archive"
	"github.com/mix-pkg/mix/pkg/download"
	"github.com/mix-pkg/mix/pkg/errors"
	"github.com/mix-pkg/mix/pkg/installer"
	"github.com/mix-pkg/mix/pkg/model"
	"github.com/mix-pkg/mix/pkg/selection"
	"github.com/mix-pkg/mix/pkg/store"
)

// Hooks carries the collaborator callbacks injected by the outer surface.
type Hooks struct {
	// Confirm is invoked once per transaction after selection is known
	// and before any mutation begins. Returning false aborts with
	// errors.ErrAborted. A nil Confirm proceeds unconditionally.
	Confirm func(sel *model.Selections) (bool, error)
	// OnPackage is invoked once per package as it begins processing.
	OnPackage func(pkg *model.Package)
}

// Orchestrator executes package transactions against a store. Failure of a
// single package aborts the remainder of the batch; packages already applied
// keep their new state.
type Orchestrator struct {
	Store    *store.Store
	Resolver selection.Resolver
	Fetcher  download.Fetcher
	// Root is the filesystem root files are placed under.
	Root string
	// RepoURL is the base URL archives are fetched from.
	RepoURL string
	Hooks   Hooks
}

// New creates an orchestrator with the default flat name resolver.
func New(st *store.Store, root string) *Orchestrator {
	return &Orchestrator{
		Store:    st,
		Resolver: selection.NameResolver{},
		Root:     root,
	}
}

// Install resolves the requested names and installs each selected package:
// place files under the root, then import into the store and cache and mark
// the package manually installed. Names that do not resolve against the
// store are treated as local archive paths; names that are neither fail the
// whole request before anything is mutated.
func (o *Orchestrator) Install(ctx context.Context, names []string) error {
	targets, err := o.resolveInstallTargets(names)
	if err != nil {
		return err
	}

	sel := o.planInstall(targets)
	if err := o.confirm(sel); err != nil {
		return err
	}

	for _, list := range [][]*model.Package{sel.Install, sel.Upgrade, sel.Downgrade} {
		for _, pkg := range list {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := o.applyInstall(pkg); err != nil {
				return errors.Wrapf(err, "failed to install %s", pkg.Name)
			}
		}
	}
	return nil
}

// resolveInstallTargets turns install request names into package handles.
// Unresolved names are read as local archives; a missing file makes the name
// truly missing and fails the request, naming exactly the missing ones.
func (o *Orchestrator) resolveInstallTargets(names []string) ([]*model.Package, error) {
	found, notFound := o.Resolver.Resolve(names, o.Store)

	var missing []string
	for _, name := range notFound {
		file, err := os.Open(name)
		if err != nil {
			if os.IsNotExist(err) {
				missing = append(missing, name)
				continue
			}
			return nil, errors.Wrapf(err, "failed to read %s as a package archive", name)
		}
		pkg, readErr := archive.ReadPackage(file)
		_ = file.Close()
		if readErr != nil {
			return nil, errors.Wrapf(readErr, "failed to read %s as a package archive", name)
		}
		pkg.LocalPath = name
		found = append(found, pkg)
	}
	if len(missing) > 0 {
		return nil, errors.Wrapf(errors.ErrPackageNotFound, "%v", missing)
	}
	return found, nil
}

// planInstall splits install targets into the disjoint install, upgrade and
// downgrade sets by comparing each incoming package against the store.
func (o *Orchestrator) planInstall(targets []*model.Package) *model.Selections {
	sel := &model.Selections{}
	for _, pkg := range targets {
		existing := o.Store.GetPackage(pkg.Name)
		if existing == nil || existing == pkg || existing.State == model.StateUninstalled {
			sel.Install = append(sel.Install, pkg)
			continue
		}
		switch pkg.Version.Compare(existing.Version) {
		case 1:
			sel.Upgrade = append(sel.Upgrade, pkg)
		case -1:
			sel.Downgrade = append(sel.Downgrade, pkg)
		default:
			sel.Install = append(sel.Install, pkg)
		}
	}
	return sel
}

func (o *Orchestrator) applyInstall(pkg *model.Package) error {
	o.beginPackage(pkg)

	// A package that is already materialized on disk is only re-marked as
	// manually installed; its files are not placed a second time.
	alreadyInstalled := pkg.LocalPath == "" && pkg.State != model.StateUninstalled
	if !alreadyInstalled {
		tarball, err := o.openArchive(pkg)
		if err != nil {
			return err
		}
		err = installer.New(o.Root).Install(tarball)
		_ = tarball.Close()
		if err != nil {
			return err
		}
	}

	// The store record changes only once the files are in place: a failed
	// install must never reach the database.
	if err := o.Store.ImportPackage(pkg); err != nil {
		return err
	}
	// After import the store record is canonical; for upgrades it is the
	// pre-existing handle, updated in place.
	stored := o.Store.GetPackage(pkg.Name)
	stored.State = model.StateManual
	return nil
}

// openArchive opens the package's archive: the local file while an import
// is in flight, the cached tarball otherwise.
func (o *Orchestrator) openArchive(pkg *model.Package) (io.ReadCloser, error) {
	if pkg.LocalPath != "" {
		file, err := os.Open(pkg.LocalPath)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open archive %s", pkg.LocalPath)
		}
		return file, nil
	}
	return o.Store.OpenPackageTarball(pkg)
}

// Remove marks the named packages uninstalled. Every name must resolve and
// every package must currently be installed; any miss aborts the whole
// request. The package records stay in the store so history survives for
// future reinstalls. File deletion from the root is intentionally not
// performed.
func (o *Orchestrator) Remove(names []string) error {
	targets, err := o.resolveStrict(names)
	if err != nil {
		return err
	}
	for _, pkg := range targets {
		if pkg.State == model.StateUninstalled {
			return errors.Wrapf(errors.ErrPackageNotInstalled, "%s", pkg.Name)
		}
	}

	sel := &model.Selections{Remove: targets}
	if err := o.confirm(sel); err != nil {
		return err
	}

	for _, pkg := range targets {
		o.beginPackage(pkg)
		pkg.State = model.StateUninstalled
	}
	return nil
}

// Update refreshes package versions from the freshest cached archives. With
// no names it covers every known package; with names, every one must
// resolve. The cached archive follows the record to its new canonical
// filename. No files are re-placed.
func (o *Orchestrator) Update(names []string) error {
	var targets []*model.Package
	if len(names) == 0 {
		targets = selection.AllPackages(o.Store)
	} else {
		var err error
		if targets, err = o.resolveStrict(names); err != nil {
			return err
		}
	}

	sel := o.planUpdate(targets)
	if err := o.confirm(sel); err != nil {
		return err
	}

	for _, list := range [][]*model.Package{sel.Upgrade, sel.Downgrade} {
		for _, pkg := range list {
			o.beginPackage(pkg)
			fresh, err := o.readCachedPackage(pkg)
			if err != nil {
				return errors.Wrapf(err, "failed to update %s", pkg.Name)
			}
			// The archive sits under the old version's filename; move it
			// to the new canonical name so the cache stays resolvable.
			renamed := *pkg
			renamed.Version = fresh.Version
			oldPath, newPath := o.Store.CachePath(pkg), o.Store.CachePath(&renamed)
			if oldPath != newPath {
				if err := os.Rename(oldPath, newPath); err != nil {
					return errors.Wrapf(err, "failed to update %s", pkg.Name)
				}
			}
			pkg.Version = fresh.Version
			pkg.Files = fresh.Files
		}
	}
	return nil
}

// planUpdate compares each target against its cached archive manifest.
// Packages without a cached archive, or whose archive matches the recorded
// version, select nothing.
func (o *Orchestrator) planUpdate(targets []*model.Package) *model.Selections {
	sel := &model.Selections{}
	for _, pkg := range targets {
		fresh, err := o.readCachedPackage(pkg)
		if err != nil {
			continue
		}
		switch fresh.Version.Compare(pkg.Version) {
		case 1:
			sel.Upgrade = append(sel.Upgrade, pkg)
		case -1:
			sel.Downgrade = append(sel.Downgrade, pkg)
		}
	}
	return sel
}

func (o *Orchestrator) readCachedPackage(pkg *model.Package) (*model.Package, error) {
	tarball, err := o.Store.OpenPackageTarball(pkg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tarball.Close() }()
	return archive.ReadPackage(tarball)
}

// Synchronize merges a list of known package names into the store as
// uninstalled entries. No confirmation is requested; synchronization never
// touches the filesystem.
func (o *Orchestrator) Synchronize(names []string) {
	o.Store.Synchronize(names)
}

// Fetch downloads the archives for the named packages into the cache
// without installing anything. Archives already present in the cache are
// skipped. Every name must resolve.
func (o *Orchestrator) Fetch(ctx context.Context, names []string) error {
	if o.Fetcher == nil || o.RepoURL == "" {
		return errors.Wrap(errors.ErrRequest, "no package repository configured")
	}
	targets, err := o.resolveStrict(names)
	if err != nil {
		return err
	}

	for _, pkg := range targets {
		o.beginPackage(pkg)
		destPath := o.Store.CachePath(pkg)
		if _, err := os.Stat(destPath); err == nil {
			continue
		}
		url := o.RepoURL + "/" + pkg.ArchiveFilename()
		if err := o.Fetcher.Fetch(ctx, url, destPath); err != nil {
			return errors.Wrapf(err, "failed to fetch %s", pkg.Name)
		}
	}
	return nil
}

// List returns every package handle in store order.
func (o *Orchestrator) List() []*model.Package {
	return selection.AllPackages(o.Store)
}

// resolveStrict resolves names where a partial match is fatal.
func (o *Orchestrator) resolveStrict(names []string) ([]*model.Package, error) {
	found, notFound := o.Resolver.Resolve(names, o.Store)
	if len(notFound) > 0 {
		return nil, errors.Wrapf(errors.ErrPackageNotFound, "%v", notFound)
	}
	return found, nil
}

func (o *Orchestrator) confirm(sel *model.Selections) error {
	if o.Hooks.Confirm == nil {
		return nil
	}
	ok, err := o.Hooks.Confirm(sel)
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrAborted
	}
	return nil
}

func (o *Orchestrator) beginPackage(pkg *model.Package) {
	if o.Hooks.OnPackage != nil {
		o.Hooks.OnPackage(pkg)
	}
}
