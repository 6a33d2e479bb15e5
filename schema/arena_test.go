package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArenaAddGet(t *testing.T) {
	items := NewItemMap()
	attr := newAttribute(ItemData{ID: IdentifierFromPascal(MustPascalCaseIdentifier("Networked"))})
	id := Add(items, attr)

	got, err := Get(items, id)
	require.NoError(t, err)
	require.Equal(t, "Networked", got.Data().ID.String())
	require.Equal(t, 1, items.Len())
}

func TestArenaGetMutAliasingViolation(t *testing.T) {
	items := NewItemMap()
	id := Add(items, newAttribute(ItemData{}))

	_, release, err := GetMut(items, id)
	require.NoError(t, err)

	_, _, err = GetMut(items, id)
	require.Error(t, err)
	var schemaErr *Error
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, ErrAliasingViolation, schemaErr.Kind)

	release()

	_, release2, err := GetMut(items, id)
	require.NoError(t, err, "released handle can be mutably borrowed again")
	release2()
}

func TestArenaGetKindMismatch(t *testing.T) {
	items := NewItemMap()
	attrID := Add(items, newAttribute(ItemData{}))
	// Forge a handle of the wrong kind pointing at the same slot.
	wrong := ItemId[Component]{raw: rawID{index: attrID.raw.index, kind: ItemTypeComponent, valid: true}}

	_, err := Get(items, wrong)
	require.Error(t, err)
	var schemaErr *Error
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, ErrTypeMismatch, schemaErr.Kind)
}

func TestArenaGetDangling(t *testing.T) {
	items := NewItemMap()
	dangling := ItemId[Attribute]{raw: rawID{index: 99, kind: ItemTypeAttribute, valid: true}}

	_, err := Get(items, dangling)
	require.Error(t, err)
	var schemaErr *Error
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, ErrDangling, schemaErr.Kind)
}

func TestResolveCloneWritesBack(t *testing.T) {
	items := NewItemMap()
	id := Add(items, newComponent(ItemData{}, "orig", "", ResolvableItemId[Type]{}, nil, nil))

	err := ResolveClone(items, id, func(c Component) (Component, error) {
		c.Name = "renamed"
		return c, nil
	})
	require.NoError(t, err)

	got, err := Get(items, id)
	require.NoError(t, err)
	require.Equal(t, "renamed", got.Name)
}

func TestGetOrCreateScopeMut(t *testing.T) {
	items := NewItemMap()
	root, _ := Bootstrap(items)

	s1, err := GetOrCreateScopeMut(items, "m.toml", root, []string{"a", "b"})
	require.NoError(t, err)

	s2, err := GetOrCreateScopeMut(items, "m.toml", root, []string{"a", "b"})
	require.NoError(t, err)
	require.Equal(t, s1, s2, "revisiting the same path segments returns the same scope")

	rootScope, err := Get(items, root)
	require.NoError(t, err)
	aID, ok := rootScope.scopes["a"]
	require.True(t, ok)
	aScope, err := Get(items, aID)
	require.NoError(t, err)
	_, ok = aScope.scopes["b"]
	require.True(t, ok)
}
