package schema

// resolveContext carries the fixed root handle and the scope whose item is
// currently being resolved, which is the lookup starting point for every
// reference that item owns (§4.4 "context of enclosing scopes").
type resolveContext struct {
	items *ItemMap
	root  ItemId[Scope]
	from  ItemId[Scope]
}

// withFrom returns a copy of rc scoped to a different starting scope, used
// when resolution descends into an item owned by a different scope than
// the one currently being walked (e.g. following a concept's extends list).
func (rc *resolveContext) withFrom(from ItemId[Scope]) *resolveContext {
	return &resolveContext{items: rc.items, root: rc.root, from: from}
}

func resolveRef[T Item](rc *resolveContext, ref ResolvableItemId[T], expected ItemType) (ResolvableItemId[T], error) {
	if ref.IsResolved() {
		return ref, nil
	}
	raw, err := Lookup(rc.items, rc.root, rc.from, ref.Path(), expected)
	if err != nil {
		return ResolvableItemId[T]{}, err
	}
	return ResolvedRef[T](ItemId[T]{raw: raw}), nil
}

func (rc *resolveContext) resolveTypeRef(ref ResolvableItemId[Type]) (ResolvableItemId[Type], error) {
	resolved, err := resolveRef[Type](rc, ref, ItemTypeType)
	if err != nil {
		return ResolvableItemId[Type]{}, err
	}
	if err := resolveTypeByHandle(rc, resolved.Handle()); err != nil {
		return ResolvableItemId[Type]{}, err
	}
	return resolved, nil
}

func (rc *resolveContext) resolveAttributeRef(ref ResolvableItemId[Attribute]) (ResolvableItemId[Attribute], error) {
	return resolveRef[Attribute](rc, ref, ItemTypeAttribute)
}

func (rc *resolveContext) resolveConceptRef(ref ResolvableItemId[Concept]) (ResolvableItemId[Concept], error) {
	resolved, err := resolveRef[Concept](rc, ref, ItemTypeConcept)
	if err != nil {
		return ResolvableItemId[Concept]{}, err
	}
	if err := resolveConceptByHandle(rc, resolved.Handle()); err != nil {
		return ResolvableItemId[Concept]{}, err
	}
	return resolved, nil
}

func (rc *resolveContext) resolveComponentRef(ref ResolvableItemId[Component]) (ResolvableItemId[Component], error) {
	resolved, err := resolveRef[Component](rc, ref, ItemTypeComponent)
	if err != nil {
		return ResolvableItemId[Component]{}, err
	}
	if err := resolveComponentByHandle(rc, resolved.Handle()); err != nil {
		return ResolvableItemId[Component]{}, err
	}
	return resolved, nil
}

// componentTypeHandle returns h's resolved type handle, resolving h first
// if needed. Concept component-value resolution needs the component's type
// to interpret its default value (§4.6 Concept).
func (rc *resolveContext) componentTypeHandle(h ItemId[Component]) (ItemId[Type], error) {
	if err := resolveComponentByHandle(rc, h); err != nil {
		return ItemId[Type]{}, err
	}
	comp, err := Get(rc.items, h)
	if err != nil {
		return ItemId[Type]{}, err
	}
	return comp.Type.Handle(), nil
}

func (rc *resolveContext) resolveValue(v ResolvableValue, expectedType ItemId[Type]) (ResolvableValue, error) {
	return v.Resolve(rc.items, expectedType)
}

// resolveTypeByHandle, resolveConceptByHandle, resolveComponentByHandle,
// resolveMessageByHandle resolve an item in place via ResolveClone,
// re-deriving a resolveContext scoped to that item's own owning scope
// (never the referrer's). All are safe to call more than once: resolution
// is idempotent by construction (§4.6, §8 I2), since every resolved arm is
// passed through unchanged.
func resolveTypeByHandle(rc *resolveContext, h ItemId[Type]) error {
	t, err := Get(rc.items, h)
	if err != nil {
		return err
	}
	childRC := rc.withFrom(ownerScope(t.data))
	return ResolveClone(rc.items, h, func(t Type) (Type, error) {
		return resolveType(childRC, t)
	})
}

func resolveConceptByHandle(rc *resolveContext, h ItemId[Concept]) error {
	c, err := Get(rc.items, h)
	if err != nil {
		return err
	}
	childRC := rc.withFrom(ownerScope(c.data))
	return ResolveClone(rc.items, h, func(c Concept) (Concept, error) {
		return resolveConcept(childRC, c)
	})
}

func resolveComponentByHandle(rc *resolveContext, h ItemId[Component]) error {
	c, err := Get(rc.items, h)
	if err != nil {
		return err
	}
	childRC := rc.withFrom(ownerScope(c.data))
	return ResolveClone(rc.items, h, func(c Component) (Component, error) {
		return resolveComponent(childRC, c)
	})
}

func resolveMessageByHandle(rc *resolveContext, h ItemId[Message]) error {
	m, err := Get(rc.items, h)
	if err != nil {
		return err
	}
	childRC := rc.withFrom(ownerScope(m.data))
	return ResolveClone(rc.items, h, func(m Message) (Message, error) {
		return resolveMessage(childRC, m)
	})
}

func ownerScope(d ItemData) ItemId[Scope] { return d.ParentID }

// Resolve runs C6 over the whole graph reachable from root: it iterates
// root's immediate child scopes and resolve-clones each, visiting a
// scope's children first (post-order) and then its own items (§4.6). Every
// item in every scope is walked exhaustively so that items nothing else
// references still end up fully resolved (§8 I1), not just those reached
// transitively from another item's references.
func Resolve(items *ItemMap, root ItemId[Scope]) error {
	rootScope, err := Get(items, root)
	if err != nil {
		return err
	}
	for _, childName := range rootScope.ScopeOrder() {
		childID := rootScope.scopes[childName]
		if err := resolveScopeTree(items, root, childID); err != nil {
			return err
		}
	}
	return nil
}

func resolveScopeTree(items *ItemMap, root ItemId[Scope], scopeID ItemId[Scope]) error {
	scope, err := Get(items, scopeID)
	if err != nil {
		return err
	}

	for _, name := range scope.ScopeOrder() {
		if err := resolveScopeTree(items, root, scope.scopes[name]); err != nil {
			return err
		}
	}

	rc := &resolveContext{items: items, root: root, from: scopeID}

	for _, name := range scope.TypeOrder() {
		if err := resolveTypeByHandle(rc, scope.types[name]); err != nil {
			return err
		}
	}
	for _, name := range scope.AttributeOrder() {
		_ = scope.attributes[name] // Attribute resolution is a no-op (§4.6)
	}
	for _, name := range scope.ComponentOrder() {
		if err := resolveComponentByHandle(rc, scope.components[name]); err != nil {
			return err
		}
	}
	for _, name := range scope.ConceptOrder() {
		if err := resolveConceptByHandle(rc, scope.concepts[name]); err != nil {
			return err
		}
	}
	for _, name := range scope.MessageOrder() {
		if err := resolveMessageByHandle(rc, scope.messages[name]); err != nil {
			return err
		}
	}
	return nil
}
