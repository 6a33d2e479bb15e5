package schema

// itemSlot is one arena cell: the concrete item value (stored as *T behind
// the Item interface) plus enough bookkeeping to police the
// at-most-one-mutable-view policy (§4.3).
type itemSlot struct {
	kind        ItemType
	value       any // always a *T for the T an ItemId[T] was created with
	mutBorrowed bool
}

// ItemMap is the single arena that exclusively owns every item (§4.3).
// All cross-item edges elsewhere are ItemId[T] handles, never owning
// references; handles are never reused, so a handle from an earlier Add
// remains meaningful (if possibly dangling, which never happens in
// practice since nothing removes items) for the arena's lifetime.
type ItemMap struct {
	slots []itemSlot
}

// NewItemMap returns an empty arena.
func NewItemMap() *ItemMap {
	return &ItemMap{}
}

// Len returns the number of items stored, for cardinality assertions (§8 I3).
func (m *ItemMap) Len() int { return len(m.slots) }

// Add appends v to the arena and returns its handle. The handle is never reused.
func Add[T Item](m *ItemMap, v T) ItemId[T] {
	idx := uint32(len(m.slots))
	p := new(T)
	*p = v
	kind := v.Kind()
	m.slots = append(m.slots, itemSlot{kind: kind, value: p})
	return ItemId[T]{raw: rawID{index: idx, kind: kind, valid: true}}
}

func (m *ItemMap) slotFor(raw rawID) (*itemSlot, error) {
	if !raw.valid || int(raw.index) >= len(m.slots) {
		return nil, &Error{Kind: ErrDangling, Message: "item handle is dangling"}
	}
	slot := &m.slots[raw.index]
	if slot.kind != raw.kind {
		return nil, &Error{Kind: ErrTypeMismatch, Message: "item handle kind does not match arena slot", ExpectedType: raw.kind}
	}
	return slot, nil
}

// Get returns a read-only view of the item at id. Read-only is a usage
// contract, not a compiler-enforced one: callers must not mutate through
// the returned pointer outside of GetMut/ResolveClone. Any number of
// read-only views may be outstanding simultaneously.
func Get[T Item](m *ItemMap, id ItemId[T]) (*T, error) {
	slot, err := m.slotFor(id.raw)
	if err != nil {
		return nil, err
	}
	p, ok := slot.value.(*T)
	if !ok {
		return nil, &Error{Kind: ErrTypeMismatch, Message: "item handle kind does not match stored value"}
	}
	return p, nil
}

// MustGet is like Get but panics on error. Used only for items the caller
// has just itself added to the arena and knows must exist (e.g. bootstrap).
func MustGet[T Item](m *ItemMap, id ItemId[T]) *T {
	p, err := Get(m, id)
	if err != nil {
		panic(err)
	}
	return p
}

// GetMut returns a mutable view of the item at id, along with a release
// function the caller must call exactly once when done. At most one
// mutable view of a given handle may be outstanding at a time; a second
// concurrent GetMut on the same handle fails with AliasingViolation (§4.3).
func GetMut[T Item](m *ItemMap, id ItemId[T]) (*T, func(), error) {
	slot, err := m.slotFor(id.raw)
	if err != nil {
		return nil, nil, err
	}
	if slot.mutBorrowed {
		return nil, nil, &Error{Kind: ErrAliasingViolation, Message: "item already has an outstanding mutable view"}
	}
	p, ok := slot.value.(*T)
	if !ok {
		return nil, nil, &Error{Kind: ErrTypeMismatch, Message: "item handle kind does not match stored value"}
	}
	slot.mutBorrowed = true
	released := false
	release := func() {
		if !released {
			slot.mutBorrowed = false
			released = true
		}
	}
	return p, release, nil
}

// ResolveClone is the arena's one safe mutation discipline for the
// resolver (§4.3, §9): it clones the item out, releasing its mutable view
// before calling resolveFn, so resolveFn is free to take mutable views of
// other items (or recursively resolve them) without ever holding two
// mutable views at once. The resolved value is written back atomically
// under a fresh mutable view.
func ResolveClone[T Item](m *ItemMap, id ItemId[T], resolveFn func(T) (T, error)) error {
	p, release, err := GetMut(m, id)
	if err != nil {
		return err
	}
	clone := *p
	release()

	resolved, err := resolveFn(clone)
	if err != nil {
		return err
	}

	p2, release2, err := GetMut(m, id)
	if err != nil {
		return err
	}
	*p2 = resolved
	release2()
	return nil
}

// GetOrCreateScopeMut walks segments from startingScope, creating missing
// intermediate scopes as it goes (§4.3). Created scopes inherit the
// starting scope's source and record manifestPath; their manifest body is
// left empty (they exist only to hold a dotted-path segment).
func GetOrCreateScopeMut(m *ItemMap, manifestPath string, startingScope ItemId[Scope], segments []string) (ItemId[Scope], error) {
	current := startingScope
	for _, seg := range segments {
		scopePtr, err := Get(m, current)
		if err != nil {
			return ItemId[Scope]{}, err
		}
		if childID, ok := scopePtr.scopes[seg]; ok {
			current = childID
			continue
		}

		snake, err := NewSnakeCaseIdentifier(seg)
		if err != nil {
			return ItemId[Scope]{}, err
		}
		newScope := newScope(ItemData{
			ParentID:    current,
			HasParentID: true,
			ID:          IdentifierFromSnake(snake),
			Source:      scopePtr.data.Source,
		}, seg, manifestPath, nil)
		childID := Add(m, newScope)

		parentPtr, release, err := GetMut(m, current)
		if err != nil {
			return ItemId[Scope]{}, err
		}
		parentPtr.addScope(seg, childID)
		release()

		current = childID
	}
	return current, nil
}
