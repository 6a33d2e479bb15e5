package schema

import (
	"fmt"
	"strconv"
)

// ScalarValue is the primitive range a Value's leaves can hold (§4.2).
// Exactly one field is meaningful, selected by Kind.
type ScalarValue struct {
	Kind ScalarKind

	Bool     bool
	U8       uint8
	U32      uint32
	U64      uint64
	I32      int32
	I64      int64
	F32      float32
	F64      float64
	Str      string
	EntityID string // textual entity id; the runtime's own id space is opaque here

	Vec2 [2]float32
	Vec3 [3]float32
	Vec4 [4]float32

	UVec2 [2]uint32
	UVec3 [3]uint32
	UVec4 [4]uint32
}

// ScalarKind tags which field of a ScalarValue is populated, and doubles as
// the closed PrimitiveType set (§3 Type, §9 bootstrap): every ScalarKind has
// a corresponding Type::Primitive child of the root scope (§8 I6).
type ScalarKind int

const (
	ScalarBool ScalarKind = iota
	ScalarU8
	ScalarU32
	ScalarU64
	ScalarI32
	ScalarI64
	ScalarF32
	ScalarF64
	ScalarString
	ScalarEntityID
	ScalarVec2
	ScalarVec3
	ScalarVec4
	ScalarUVec2
	ScalarUVec3
	ScalarUVec4
)

// AllScalarKinds enumerates the closed primitive set, in the order the root
// bootstrap (C7) materializes them.
func AllScalarKinds() []ScalarKind {
	return []ScalarKind{
		ScalarBool, ScalarU8, ScalarU32, ScalarU64, ScalarI32, ScalarI64,
		ScalarF32, ScalarF64, ScalarString, ScalarEntityID,
		ScalarVec2, ScalarVec3, ScalarVec4, ScalarUVec2, ScalarUVec3, ScalarUVec4,
	}
}

// PascalName is the identifier this primitive is bootstrapped under (e.g. "F32").
func (k ScalarKind) PascalName() string {
	switch k {
	case ScalarBool:
		return "Bool"
	case ScalarU8:
		return "U8"
	case ScalarU32:
		return "U32"
	case ScalarU64:
		return "U64"
	case ScalarI32:
		return "I32"
	case ScalarI64:
		return "I64"
	case ScalarF32:
		return "F32"
	case ScalarF64:
		return "F64"
	case ScalarString:
		return "String"
	case ScalarEntityID:
		return "EntityId"
	case ScalarVec2:
		return "Vec2"
	case ScalarVec3:
		return "Vec3"
	case ScalarVec4:
		return "Vec4"
	case ScalarUVec2:
		return "Uvec2"
	case ScalarUVec3:
		return "Uvec3"
	case ScalarUVec4:
		return "Uvec4"
	default:
		return "Unknown"
	}
}

func (k ScalarKind) String() string { return k.PascalName() }

// parseScalar interprets token against the scalar kind expected. This is the
// leaf case of ResolvableValue.Resolve (§4.2); it never sees Vec/Option/Enum
// wrapping, which is peeled off by the caller.
func parseScalar(kind ScalarKind, token string) (ScalarValue, error) {
	fail := func() (ScalarValue, error) {
		return ScalarValue{}, fmt.Errorf("cannot interpret %q as %s", token, kind)
	}
	switch kind {
	case ScalarBool:
		b, err := strconv.ParseBool(token)
		if err != nil {
			return fail()
		}
		return ScalarValue{Kind: kind, Bool: b}, nil
	case ScalarU8:
		v, err := strconv.ParseUint(token, 10, 8)
		if err != nil {
			return fail()
		}
		return ScalarValue{Kind: kind, U8: uint8(v)}, nil
	case ScalarU32:
		v, err := strconv.ParseUint(token, 10, 32)
		if err != nil {
			return fail()
		}
		return ScalarValue{Kind: kind, U32: uint32(v)}, nil
	case ScalarU64:
		v, err := strconv.ParseUint(token, 10, 64)
		if err != nil {
			return fail()
		}
		return ScalarValue{Kind: kind, U64: v}, nil
	case ScalarI32:
		v, err := strconv.ParseInt(token, 10, 32)
		if err != nil {
			return fail()
		}
		return ScalarValue{Kind: kind, I32: int32(v)}, nil
	case ScalarI64:
		v, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return fail()
		}
		return ScalarValue{Kind: kind, I64: v}, nil
	case ScalarF32:
		v, err := strconv.ParseFloat(token, 32)
		if err != nil {
			return fail()
		}
		return ScalarValue{Kind: kind, F32: float32(v)}, nil
	case ScalarF64:
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return fail()
		}
		return ScalarValue{Kind: kind, F64: v}, nil
	case ScalarString:
		return ScalarValue{Kind: kind, Str: token}, nil
	case ScalarEntityID:
		return ScalarValue{Kind: kind, EntityID: token}, nil
	default:
		// Vec2/Vec3/Vec4/Uvec2/Uvec3/Uvec4 have no single-token textual form
		// in the manifest grammar; they are only ever produced programmatically.
		return fail()
	}
}

// ValueTag distinguishes the shape of a Value (§4.2).
type ValueTag int

const (
	ValueScalar ValueTag = iota
	ValueVec
	ValueOption
	ValueEnum
)

// Value is a fully-resolved, fully-typed value: Scalar | Vec | Option | Enum.
type Value struct {
	Tag ValueTag

	Scalar ScalarValue
	Vec    []ScalarValue
	Option *ScalarValue // nil means the None arm

	EnumType    ItemId[Type]
	EnumVariant PascalCaseIdentifier
}

// ResolvableValue is either a pending textual token (carrying the type it
// must resolve against) or a fully-typed Value (§3 ResolvableValue).
type ResolvableValue struct {
	resolved bool
	token    string
	value    Value
}

// UnresolvedValue constructs the Unresolved arm from a raw textual token.
func UnresolvedValue(token string) ResolvableValue {
	return ResolvableValue{token: token}
}

// ResolvedValue constructs the Resolved arm directly.
func ResolvedValue(v Value) ResolvableValue {
	return ResolvableValue{resolved: true, value: v}
}

// IsResolved reports whether this value is in the Resolved arm.
func (r ResolvableValue) IsResolved() bool { return r.resolved }

// Token returns the pending textual token. Only meaningful when unresolved.
func (r ResolvableValue) Token() string { return r.token }

// Value returns the resolved Value. Only meaningful when resolved.
func (r ResolvableValue) Value() Value { return r.value }

// Resolve walks expectedType (peeling an Option wrapper) and interprets the
// pending token against whatever scalar or enum shape is left. A Vec
// expected type is rejected, since a single token cannot spell a vector
// value. Enum variant names are looked up in the target
// enum's member list; an unknown variant, like any other scalar parse
// failure, surfaces as UnresolvedValue.
func (r ResolvableValue) Resolve(m *ItemMap, expectedType ItemId[Type]) (ResolvableValue, error) {
	if r.resolved {
		return r, nil
	}
	v, err := resolveValueToken(m, expectedType, r.token)
	if err != nil {
		return ResolvableValue{}, &Error{
			Kind:         ErrUnresolvedValue,
			ExpectedType: ItemTypeType,
			Raw:          r.token,
			Message:      err.Error(),
		}
	}
	return ResolvedValue(v), nil
}

func resolveValueToken(m *ItemMap, expectedType ItemId[Type], token string) (Value, error) {
	ty, err := Get(m, expectedType)
	if err != nil {
		return Value{}, err
	}
	switch ty.Tag {
	case TypeTagOption:
		if !ty.Option.IsResolved() {
			return Value{}, fmt.Errorf("option element type is itself unresolved")
		}
		inner := ty.Option.Handle()
		if token == "" || token == "null" || token == "none" {
			return Value{Tag: ValueOption, Option: nil}, nil
		}
		innerVal, err := resolveValueToken(m, inner, token)
		if err != nil {
			return Value{}, err
		}
		if innerVal.Tag != ValueScalar {
			return Value{}, fmt.Errorf("option element type must be a scalar")
		}
		sv := innerVal.Scalar
		return Value{Tag: ValueOption, Option: &sv}, nil

	case TypeTagVec:
		return Value{}, fmt.Errorf("vector values must be constructed programmatically, not parsed from a single token %q", token)

	case TypeTagEnum:
		for _, member := range ty.Members {
			if member.Name.String() == token {
				return Value{Tag: ValueEnum, EnumType: expectedType, EnumVariant: member.Name}, nil
			}
		}
		return Value{}, fmt.Errorf("unknown enum variant %q", token)

	case TypeTagPrimitive:
		sv, err := parseScalar(ty.Primitive, token)
		if err != nil {
			return Value{}, err
		}
		return Value{Tag: ValueScalar, Scalar: sv}, nil

	default:
		return Value{}, fmt.Errorf("unrecognized type tag")
	}
}
