package schema

// TypeTag distinguishes the shape of a Type (§3 Type).
type TypeTag int

const (
	TypeTagPrimitive TypeTag = iota
	TypeTagVec
	TypeTagOption
	TypeTagEnum
)

// EnumMember is one (name, description) pair of an Enum type, in
// declaration order (§3 Type: "members: ordered [(PascalIdent, description)]").
type EnumMember struct {
	Name        PascalCaseIdentifier
	Description string
}

// Type is a declared type: a closed-set primitive, a vector/option wrapper
// around another type, or an enum (§3, §4.2).
type Type struct {
	data ItemData

	Tag TypeTag

	// Primitive is meaningful only when Tag == TypeTagPrimitive.
	Primitive ScalarKind
	// Vec is meaningful only when Tag == TypeTagVec: the element type.
	Vec ResolvableItemId[Type]
	// Option is meaningful only when Tag == TypeTagOption: the element type.
	Option ResolvableItemId[Type]
	// Members is meaningful only when Tag == TypeTagEnum.
	Members []EnumMember
}

func (t Type) Data() ItemData { return t.data }
func (t Type) Kind() ItemType { return ItemTypeType }

// newPrimitiveType constructs a root-owned Type::Primitive child (§4.7).
func newPrimitiveType(data ItemData, kind ScalarKind) Type {
	return Type{data: data, Tag: TypeTagPrimitive, Primitive: kind}
}

// newVecType constructs a Type::Vec wrapping an unresolved element path.
func newVecType(data ItemData, elem Path) Type {
	return Type{data: data, Tag: TypeTagVec, Vec: UnresolvedRef[Type](elem)}
}

// newOptionType constructs a Type::Option wrapping an unresolved element path.
func newOptionType(data ItemData, elem Path) Type {
	return Type{data: data, Tag: TypeTagOption, Option: UnresolvedRef[Type](elem)}
}

// newEnumType constructs a Type::Enum with the given ordered member list.
func newEnumType(data ItemData, members []EnumMember) Type {
	return Type{data: data, Tag: TypeTagEnum, Members: append([]EnumMember(nil), members...)}
}

// resolveType converts the inner ResolvableItemId of a Vec/Option into its
// Resolved arm (§4.4 "Type. Vec and Option resolve their inner element type;
// Enum and Primitive are terminal"). It is the per-kind resolution rule
// invoked from the resolver (C6) via ResolveClone.
func resolveType(rc *resolveContext, t Type) (Type, error) {
	switch t.Tag {
	case TypeTagVec:
		resolved, err := rc.resolveTypeRef(t.Vec)
		if err != nil {
			return Type{}, err
		}
		t.Vec = resolved
		return t, nil
	case TypeTagOption:
		resolved, err := rc.resolveTypeRef(t.Option)
		if err != nil {
			return Type{}, err
		}
		t.Option = resolved
		return t, nil
	default:
		return t, nil
	}
}
