package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBootstrapInstallsEveryPrimitive(t *testing.T) {
	items := NewItemMap()
	root, _ := Bootstrap(items)

	rootScope, err := Get(items, root)
	require.NoError(t, err)

	for _, kind := range AllScalarKinds() {
		id, ok := rootScope.types[kind.PascalName()]
		require.True(t, ok, "missing bootstrap primitive %s", kind.PascalName())
		typ, err := Get(items, id)
		require.NoError(t, err)
		require.Equal(t, TypeTagPrimitive, typ.Tag)
		require.Equal(t, kind, typ.Primitive)
	}
}

func TestBootstrapInstallsStandardAttributes(t *testing.T) {
	items := NewItemMap()
	root, defs := Bootstrap(items)

	rootScope, err := Get(items, root)
	require.NoError(t, err)

	for _, name := range StandardAttributeNames() {
		_, ok := rootScope.attributes[name]
		require.True(t, ok, "missing standard attribute %s", name)
	}

	require.True(t, defs.Debuggable.IsValid())
	require.True(t, defs.Networked.IsValid())
	require.True(t, defs.Resource.IsValid())
	require.True(t, defs.MaybeResource.IsValid())
	require.True(t, defs.Store.IsValid())
	require.True(t, defs.Enum.IsValid())
}

func TestBootstrapRootScopeHasNoParent(t *testing.T) {
	items := NewItemMap()
	root, _ := Bootstrap(items)

	rootScope, err := Get(items, root)
	require.NoError(t, err)
	require.False(t, rootScope.Data().HasParentID)
}
