package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mix-pkg/mix/pkg/model"
	"github.com/mix-pkg/mix/pkg/store"
)

func newTestStore(t *testing.T, names ...string) *store.Store {
	t.Helper()
	st := store.NewEmpty(t.TempDir())
	st.Synchronize(names)
	return st
}

func TestPackagesFromNamesAllFound(t *testing.T) {
	st := newTestStore(t, "alpha", "beta", "gamma")

	found, notFound := PackagesFromNames([]string{"gamma", "alpha"}, st)

	require.Empty(t, notFound)
	require.Len(t, found, 2)
	assert.Equal(t, "gamma", found[0].Name, "found handles keep input name order")
	assert.Equal(t, "alpha", found[1].Name)
}

func TestPackagesFromNamesPartition(t *testing.T) {
	st := newTestStore(t, "alpha", "beta")

	names := []string{"alpha", "ghost", "beta", "phantom"}
	found, notFound := PackagesFromNames(names, st)

	assert.Equal(t, []string{"ghost", "phantom"}, notFound)
	require.Len(t, found, 2)
	assert.Equal(t, "alpha", found[0].Name)
	assert.Equal(t, "beta", found[1].Name)

	// Partition property: found names plus not-found names cover the input.
	assert.Len(t, found, len(names)-len(notFound))
}

func TestPackagesFromNamesEmptyStore(t *testing.T) {
	st := store.NewEmpty(t.TempDir())
	found, notFound := PackagesFromNames([]string{"anything"}, st)
	assert.Empty(t, found)
	assert.Equal(t, []string{"anything"}, notFound)
}

func TestPackagesFromNamesReturnsSharedHandles(t *testing.T) {
	st := newTestStore(t, "alpha")
	found, _ := PackagesFromNames([]string{"alpha"}, st)
	require.Len(t, found, 1)

	// Mutation through the selection handle is visible through the store.
	found[0].State = model.StateManual
	assert.Equal(t, model.StateManual, st.GetPackage("alpha").State)
}

func TestAllPackages(t *testing.T) {
	st := newTestStore(t, "one", "two", "three")
	all := AllPackages(st)
	require.Len(t, all, 3)
	assert.Equal(t, "one", all[0].Name)
	assert.Equal(t, "two", all[1].Name)
	assert.Equal(t, "three", all[2].Name)
}

func TestNameResolverMatchesPackagesFromNames(t *testing.T) {
	st := newTestStore(t, "alpha")
	found, notFound := NameResolver{}.Resolve([]string{"alpha", "ghost"}, st)
	require.Len(t, found, 1)
	assert.Equal(t, "alpha", found[0].Name)
	assert.Equal(t, []string{"ghost"}, notFound)
}
