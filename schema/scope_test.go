package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// addChildScope is a small test helper that creates a child scope under
// parent and registers it under name, mirroring what the loader does.
func addChildScope(t *testing.T, items *ItemMap, parent ItemId[Scope], name string) ItemId[Scope] {
	t.Helper()
	data := ItemData{ParentID: parent, HasParentID: true, ID: IdentifierFromSnake(mustSnake(t, name)), Source: ItemSourceUser}
	child := Add(items, newScope(data, name, "", nil))
	withMutScope(t, items, parent, func(s *Scope) { s.addScope(name, child) })
	return child
}

func mustSnake(t *testing.T, s string) SnakeCaseIdentifier {
	t.Helper()
	id, err := NewSnakeCaseIdentifier(s)
	require.NoError(t, err)
	return id
}

// withMutScope checks out a mutable view of id, runs fn against it, and
// releases it, failing the test on any arena error.
func withMutScope(t *testing.T, items *ItemMap, id ItemId[Scope], fn func(*Scope)) {
	t.Helper()
	p, release, err := GetMut(items, id)
	require.NoError(t, err)
	defer release()
	fn(p)
}

func TestLookupRelativeWalksAncestors(t *testing.T) {
	ResetIdentifierBansForTest()
	defer ResetIdentifierBansForTest()

	items := NewItemMap()
	root, _ := Bootstrap(items)

	child := addChildScope(t, items, root, "game")

	attrID := Add(items, newAttribute(ItemData{ParentID: root, HasParentID: true, ID: IdentifierFromPascal(MustPascalCaseIdentifier("Custom"))}))
	withMutScope(t, items, root, func(s *Scope) { s.addAttribute("Custom", attrID) })

	path, err := ParsePath("Custom")
	require.NoError(t, err)

	got, err := Lookup(items, root, child, path, ItemTypeAttribute)
	require.NoError(t, err)
	require.Equal(t, attrID.raw, got)
}

func TestLookupDependencyFallback(t *testing.T) {
	ResetIdentifierBansForTest()
	defer ResetIdentifierBansForTest()

	items := NewItemMap()
	root, _ := Bootstrap(items)

	libScope := addChildScope(t, items, root, "lib")
	compID := Add(items, newComponent(ItemData{ParentID: libScope, HasParentID: true, ID: IdentifierFromSnake(mustSnake(t, "health"))}, "health", "", ResolvableItemId[Type]{}, nil, nil))
	withMutScope(t, items, libScope, func(s *Scope) { s.addComponent("health", compID) })

	userScope := addChildScope(t, items, root, "game")
	withMutScope(t, items, userScope, func(s *Scope) { s.Dependencies = append(s.Dependencies, libScope) })

	path, err := ParsePath("health")
	require.NoError(t, err)

	got, err := Lookup(items, root, userScope, path, ItemTypeComponent)
	require.NoError(t, err)
	require.Equal(t, compID.raw, got)
}

func TestLookupFindsRootPrimitiveTypeFromChildScope(t *testing.T) {
	ResetIdentifierBansForTest()
	defer ResetIdentifierBansForTest()

	items := NewItemMap()
	root, _ := Bootstrap(items)
	child := addChildScope(t, items, root, "game")

	path, err := ParsePath("U32")
	require.NoError(t, err)

	got, err := Lookup(items, root, child, path, ItemTypeType)
	require.NoError(t, err)

	rootScope, err := Get(items, root)
	require.NoError(t, err)
	want, ok := rootScope.types["U32"]
	require.True(t, ok)
	require.Equal(t, want.raw, got)
}

func TestLookupUnresolvedReturnsError(t *testing.T) {
	ResetIdentifierBansForTest()
	defer ResetIdentifierBansForTest()

	items := NewItemMap()
	root, _ := Bootstrap(items)
	child := addChildScope(t, items, root, "game")

	path, err := ParsePath("does_not_exist")
	require.NoError(t, err)

	_, err = Lookup(items, root, child, path, ItemTypeComponent)
	require.Error(t, err)
	var schemaErr *Error
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, ErrUnresolvedReference, schemaErr.Kind)
}
