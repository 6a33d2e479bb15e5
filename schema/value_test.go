package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func u32Type(t *testing.T, items *ItemMap, root ItemId[Scope]) ItemId[Type] {
	t.Helper()
	rootScope, err := Get(items, root)
	require.NoError(t, err)
	id, ok := rootScope.types["U32"]
	require.True(t, ok)
	return id
}

func TestResolveScalarValue(t *testing.T) {
	items := NewItemMap()
	root, _ := Bootstrap(items)

	rv := UnresolvedValue("42")
	resolved, err := rv.Resolve(items, u32Type(t, items, root))
	require.NoError(t, err)
	require.True(t, resolved.IsResolved())
	require.Equal(t, ValueScalar, resolved.Value().Tag)
	require.Equal(t, uint32(42), resolved.Value().Scalar.U32)
}

func TestResolveScalarValueBadToken(t *testing.T) {
	items := NewItemMap()
	root, _ := Bootstrap(items)

	_, err := UnresolvedValue("not-a-number").Resolve(items, u32Type(t, items, root))
	require.Error(t, err)
	var schemaErr *Error
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, ErrUnresolvedValue, schemaErr.Kind)
}

func TestResolveOptionValueSome(t *testing.T) {
	items := NewItemMap()
	root, _ := Bootstrap(items)
	u32 := u32Type(t, items, root)

	optType := Add(items, newOptionType(ItemData{ParentID: root, HasParentID: true}, Path{}))
	// wire the option's element directly since this test bypasses the loader.
	release := mustReleaseAfterSet(t, items, optType, func(ty *Type) { ty.Option = ResolvedRef(u32) })
	release()

	resolved, err := UnresolvedValue("7").Resolve(items, optType)
	require.NoError(t, err)
	require.Equal(t, ValueOption, resolved.Value().Tag)
	require.NotNil(t, resolved.Value().Option)
	require.Equal(t, uint32(7), resolved.Value().Option.U32)
}

func TestResolveOptionValueNone(t *testing.T) {
	items := NewItemMap()
	root, _ := Bootstrap(items)
	u32 := u32Type(t, items, root)

	optType := Add(items, newOptionType(ItemData{ParentID: root, HasParentID: true}, Path{}))
	release := mustReleaseAfterSet(t, items, optType, func(ty *Type) { ty.Option = ResolvedRef(u32) })
	release()

	resolved, err := UnresolvedValue("none").Resolve(items, optType)
	require.NoError(t, err)
	require.Equal(t, ValueOption, resolved.Value().Tag)
	require.Nil(t, resolved.Value().Option)
}

func TestResolveEnumValue(t *testing.T) {
	items := NewItemMap()
	root, _ := Bootstrap(items)

	members := []EnumMember{{Name: MustPascalCaseIdentifier("Red")}, {Name: MustPascalCaseIdentifier("Blue")}}
	enumType := Add(items, newEnumType(ItemData{ParentID: root, HasParentID: true}, members))

	resolved, err := UnresolvedValue("Blue").Resolve(items, enumType)
	require.NoError(t, err)
	require.Equal(t, ValueEnum, resolved.Value().Tag)
	require.Equal(t, "Blue", resolved.Value().EnumVariant.String())
}

func TestResolveEnumValueUnknownVariant(t *testing.T) {
	items := NewItemMap()
	root, _ := Bootstrap(items)

	members := []EnumMember{{Name: MustPascalCaseIdentifier("Red")}}
	enumType := Add(items, newEnumType(ItemData{ParentID: root, HasParentID: true}, members))

	_, err := UnresolvedValue("Green").Resolve(items, enumType)
	require.Error(t, err)
	var schemaErr *Error
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, ErrUnresolvedValue, schemaErr.Kind)
}

// mustReleaseAfterSet checks out a mutable Type, applies fn, and returns the
// mutable view's release func, which the caller must call.
func mustReleaseAfterSet(t *testing.T, items *ItemMap, id ItemId[Type], fn func(*Type)) func() {
	t.Helper()
	p, release, err := GetMut(items, id)
	require.NoError(t, err)
	fn(p)
	return release
}
