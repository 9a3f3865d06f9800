// Package selection turns requested package names into handles from the
// package store. Resolution is flat: a name selects exactly the package
// carrying it. Dependency-graph expansion is deliberately not implemented;
// the Resolver interface is the seam where it would go.
package selection

import (
	"github.com/mix-pkg/mix/pkg/model"
	"github.com/mix-pkg/mix/pkg/store"
)

// Resolver expands requested names into the set of packages an operation
// must touch. Implementations that understand dependency graphs can return
// more packages than were named; the default NameResolver returns exactly
// the named ones.
type Resolver interface {
	Resolve(names []string, st *store.Store) (found []*model.Package, notFound []string)
}

// NameResolver is the default flat resolver.
type NameResolver struct{}

// Resolve implements Resolver by plain name lookup.
func (NameResolver) Resolve(names []string, st *store.Store) ([]*model.Package, []string) {
	return PackagesFromNames(names, st)
}

// PackagesFromNames resolves each name to its package handle. The found
// handles keep the input name order. When every name resolves, notFound is
// empty; otherwise notFound carries exactly the unresolved names and found
// carries the handles that did resolve, so the caller can decide whether a
// partial result is acceptable.
func PackagesFromNames(names []string, st *store.Store) (found []*model.Package, notFound []string) {
	for _, name := range names {
		if pkg := st.GetPackage(name); pkg != nil {
			found = append(found, pkg)
			continue
		}
		notFound = append(notFound, name)
	}
	return found, notFound
}

// AllPackages returns every package handle in store order. It always
// succeeds.
func AllPackages(st *store.Store) []*model.Package {
	return st.Packages()
}
