package schema

// ItemType tags the kind of an Item (§3).
type ItemType int

const (
	ItemTypeComponent ItemType = iota
	ItemTypeConcept
	ItemTypeMessage
	ItemTypeType
	ItemTypeAttribute
	ItemTypeScope
)

func (t ItemType) String() string {
	switch t {
	case ItemTypeComponent:
		return "Component"
	case ItemTypeConcept:
		return "Concept"
	case ItemTypeMessage:
		return "Message"
	case ItemTypeType:
		return "Type"
	case ItemTypeAttribute:
		return "Attribute"
	case ItemTypeScope:
		return "Scope"
	default:
		return "Unknown"
	}
}

// ItemSource records the provenance of an item (§3), used for diagnostics
// and to decide which scopes are created with which default source when
// the loader materializes intermediate scopes.
type ItemSource int

const (
	// ItemSourceSystem marks items created by the root bootstrap (§4.7).
	ItemSourceSystem ItemSource = iota
	// ItemSourceAmbient marks items loaded from the built-in schema manifest.
	ItemSourceAmbient
	// ItemSourceUser marks items loaded from a user manifest.
	ItemSourceUser
)

func (s ItemSource) String() string {
	switch s {
	case ItemSourceSystem:
		return "System"
	case ItemSourceAmbient:
		return "Ambient"
	case ItemSourceUser:
		return "User"
	default:
		return "Unknown"
	}
}

// ItemData is the data every Item shares (§3).
type ItemData struct {
	// ParentID is the enclosing scope's handle. Zero/absent only for the root scope.
	ParentID    ItemId[Scope]
	HasParentID bool
	ID          Identifier
	Source      ItemSource
}

func (d ItemData) clone() ItemData { return d }

// Item is the uniform capability set every arena-resident value exposes
// (§9 "Polymorphism over item kinds"): a closed set of kinds, each exposing
// its shared data and type tag.
type Item interface {
	Data() ItemData
	Kind() ItemType
}

// rawID is the untyped handle representation stored inside an ItemId[T];
// the kind lets Get verify at runtime that T matches what was actually
// stored, since Go generics have no way to carry that check statically
// across package-level arena storage.
type rawID struct {
	index uint32
	kind  ItemType
	valid bool
}

// ItemId is an opaque, small, comparable, cheaply-copyable typed handle
// into an ItemMap (§3 "Typed handle"). The phantom type parameter T lets
// the arena enforce that Get[T] returns an item of the matching kind.
type ItemId[T Item] struct {
	raw rawID
}

// IsValid reports whether this handle was ever assigned a value (the zero
// ItemId[T] is invalid and never resolves to anything).
func (id ItemId[T]) IsValid() bool { return id.raw.valid }

// Equal reports whether two handles refer to the same arena slot.
func (id ItemId[T]) Equal(other ItemId[T]) bool { return id.raw == other.raw }

// ResolvableItemId is a reference to another item that starts as an
// unresolved textual path and becomes a resolved handle once resolve()
// has run (§3). Both arms use the Go zero value cleanly: the zero
// ResolvableItemId is Unresolved with an empty path.
type ResolvableItemId[T Item] struct {
	resolved bool
	path     Path
	handle   ItemId[T]
}

// UnresolvedRef constructs the Unresolved arm from a textual path.
func UnresolvedRef[T Item](path Path) ResolvableItemId[T] {
	return ResolvableItemId[T]{path: path}
}

// ResolvedRef constructs the Resolved arm from a handle.
func ResolvedRef[T Item](id ItemId[T]) ResolvableItemId[T] {
	return ResolvableItemId[T]{resolved: true, handle: id}
}

// IsResolved reports whether this reference is in the Resolved arm.
func (r ResolvableItemId[T]) IsResolved() bool { return r.resolved }

// Path returns the pending textual path. Only meaningful when unresolved.
func (r ResolvableItemId[T]) Path() Path { return r.path }

// Handle returns the resolved target handle. Only meaningful when resolved.
func (r ResolvableItemId[T]) Handle() ItemId[T] { return r.handle }
