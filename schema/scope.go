package schema

// Scope is a namespace node in the scope tree (§3 Scope, §4.4). Every
// declared item lives inside exactly one scope; scopes nest to mirror the
// manifest include structure and dotted declaration paths, while named
// dependencies are top-level scopes linked through Dependencies.
type Scope struct {
	data ItemData

	// OriginalID is the raw snake_case spelling from the manifest, kept
	// distinct from data.ID so diagnostics can quote what the author wrote.
	OriginalID string

	// ManifestPath is the canonical path of the defining manifest, if any.
	ManifestPath string
	// Manifest is the raw parsed manifest this scope was built from, if any.
	Manifest *Manifest

	scopes     map[string]ItemId[Scope]
	components map[string]ItemId[Component]
	concepts   map[string]ItemId[Concept]
	messages   map[string]ItemId[Message]
	types      map[string]ItemId[Type]
	attributes map[string]ItemId[Attribute]

	// ScopeOrder/ComponentOrder/... preserve manifest declaration order for
	// diagnostics and the printer, since Go maps do not.
	scopeOrder     []string
	componentOrder []string
	conceptOrder   []string
	messageOrder   []string
	typeOrder      []string
	attributeOrder []string

	// Dependencies is the ordered list of named-dependency scopes linked into
	// this scope's lookup chain (§4.4, §4.5).
	Dependencies []ItemId[Scope]
}

func (s Scope) Data() ItemData { return s.data }
func (s Scope) Kind() ItemType { return ItemTypeScope }

func newScope(data ItemData, originalID string, manifestPath string, manifest *Manifest) Scope {
	return Scope{
		data:         data,
		OriginalID:   originalID,
		ManifestPath: manifestPath,
		Manifest:     manifest,
		scopes:       map[string]ItemId[Scope]{},
		components:   map[string]ItemId[Component]{},
		concepts:     map[string]ItemId[Concept]{},
		messages:     map[string]ItemId[Message]{},
		types:        map[string]ItemId[Type]{},
		attributes:   map[string]ItemId[Attribute]{},
	}
}

// Scopes returns the child scope map, read-only.
func (s Scope) Scopes() map[string]ItemId[Scope] { return s.scopes }

// Components returns the component map, read-only.
func (s Scope) Components() map[string]ItemId[Component] { return s.components }

// Concepts returns the concept map, read-only.
func (s Scope) Concepts() map[string]ItemId[Concept] { return s.concepts }

// Messages returns the message map, read-only.
func (s Scope) Messages() map[string]ItemId[Message] { return s.messages }

// Types returns the type map, read-only.
func (s Scope) Types() map[string]ItemId[Type] { return s.types }

// Attributes returns the attribute map, read-only.
func (s Scope) Attributes() map[string]ItemId[Attribute] { return s.attributes }

// ScopeOrder, ComponentOrder, etc. return the declaration order of each
// container's keys, for diagnostics and the printer.
func (s Scope) ScopeOrder() []string     { return s.scopeOrder }
func (s Scope) ComponentOrder() []string { return s.componentOrder }
func (s Scope) ConceptOrder() []string   { return s.conceptOrder }
func (s Scope) MessageOrder() []string   { return s.messageOrder }
func (s Scope) TypeOrder() []string      { return s.typeOrder }
func (s Scope) AttributeOrder() []string { return s.attributeOrder }

func (s *Scope) addScope(name string, id ItemId[Scope]) {
	if _, exists := s.scopes[name]; !exists {
		s.scopeOrder = append(s.scopeOrder, name)
	}
	s.scopes[name] = id
}

func (s *Scope) addComponent(name string, id ItemId[Component]) (*Error, bool) {
	if _, exists := s.components[name]; exists {
		return &Error{Kind: ErrDuplicateScope, RefPath: name, Message: "duplicate component name " + name}, false
	}
	s.componentOrder = append(s.componentOrder, name)
	s.components[name] = id
	return nil, true
}

func (s *Scope) addConcept(name string, id ItemId[Concept]) (*Error, bool) {
	if _, exists := s.concepts[name]; exists {
		return &Error{Kind: ErrDuplicateScope, RefPath: name, Message: "duplicate concept name " + name}, false
	}
	s.conceptOrder = append(s.conceptOrder, name)
	s.concepts[name] = id
	return nil, true
}

func (s *Scope) addMessage(name string, id ItemId[Message]) (*Error, bool) {
	if _, exists := s.messages[name]; exists {
		return &Error{Kind: ErrDuplicateScope, RefPath: name, Message: "duplicate message name " + name}, false
	}
	s.messageOrder = append(s.messageOrder, name)
	s.messages[name] = id
	return nil, true
}

func (s *Scope) addType(name string, id ItemId[Type]) (*Error, bool) {
	if _, exists := s.types[name]; exists {
		return &Error{Kind: ErrDuplicateScope, RefPath: name, Message: "duplicate type name " + name}, false
	}
	s.typeOrder = append(s.typeOrder, name)
	s.types[name] = id
	return nil, true
}

func (s *Scope) addAttribute(name string, id ItemId[Attribute]) (*Error, bool) {
	if _, exists := s.attributes[name]; exists {
		return &Error{Kind: ErrDuplicateScope, RefPath: name, Message: "duplicate attribute name " + name}, false
	}
	s.attributeOrder = append(s.attributeOrder, name)
	s.attributes[name] = id
	return nil, true
}

// lookupContainer selects the container appropriate to the expected item
// type (§4.4 step 2b).
func lookupContainer(s *Scope, expected ItemType, lastSegment string) (rawID, bool) {
	switch expected {
	case ItemTypeComponent:
		id, ok := s.components[lastSegment]
		return id.raw, ok
	case ItemTypeConcept:
		id, ok := s.concepts[lastSegment]
		return id.raw, ok
	case ItemTypeMessage:
		id, ok := s.messages[lastSegment]
		return id.raw, ok
	case ItemTypeType:
		id, ok := s.types[lastSegment]
		return id.raw, ok
	case ItemTypeAttribute:
		id, ok := s.attributes[lastSegment]
		return id.raw, ok
	default:
		return rawID{}, false
	}
}

// resolveScopePath walks scopePath's segments starting from startScope,
// descending through child scopes only (never dependencies, never parents);
// used as the inner loop of lookup (§4.4 step 2a).
func resolveScopePath(m *ItemMap, startScope ItemId[Scope], segments []string) (ItemId[Scope], bool) {
	current := startScope
	for _, seg := range segments {
		s, err := Get(m, current)
		if err != nil {
			return ItemId[Scope]{}, false
		}
		child, ok := s.scopes[seg]
		if !ok {
			return ItemId[Scope]{}, false
		}
		current = child
	}
	return current, true
}

// Lookup resolves path against a starting-scope chain using the algorithm
// of §4.4:
//
//  1. Build the set of starting scopes to try: if path is absolute, only the
//     root scope; otherwise the given scope, then each of its ancestors up
//     the parent chain (innermost first).
//  2. For each starting scope, walk scopePath's child-scope segments, then
//     look the final segment up in the container matching expected; if it
//     is not there, walk scopePath again from each of the reached scope's
//     dependency scopes and look it up there. A starting scope whose own
//     walk fails is skipped without consulting any dependencies.
//  3. If nothing resolves and expected is Type or Attribute, additionally
//     try the root scope directly.
func Lookup(m *ItemMap, root ItemId[Scope], from ItemId[Scope], path Path, expected ItemType) (rawID, error) {
	scopePath, lastSegment := path.ScopeAndItem()
	if lastSegment == "" {
		return rawID{}, &Error{Kind: ErrUnresolvedReference, RefPath: path.String(), ExpectedType: expected, Message: "path has no final segment"}
	}

	var starts []ItemId[Scope]
	if path.IsAbsolute() {
		starts = []ItemId[Scope]{root}
	} else {
		starts = enclosingScopeChain(m, from)
	}

	tryStart := func(start ItemId[Scope]) (rawID, bool) {
		scope, ok := resolveScopePath(m, start, scopePath.Segments())
		if !ok {
			return rawID{}, false
		}
		s, err := Get(m, scope)
		if err != nil {
			return rawID{}, false
		}
		if id, ok := lookupContainer(s, expected, lastSegment); ok {
			return id, true
		}
		for _, dep := range s.Dependencies {
			depScope, ok := resolveScopePath(m, dep, scopePath.Segments())
			if !ok {
				continue
			}
			ds, err := Get(m, depScope)
			if err != nil {
				continue
			}
			if id, ok := lookupContainer(ds, expected, lastSegment); ok {
				return id, true
			}
		}
		return rawID{}, false
	}

	for _, start := range starts {
		if id, ok := tryStart(start); ok {
			return id, nil
		}
	}

	if expected == ItemTypeType || expected == ItemTypeAttribute {
		if id, ok := tryStart(root); ok {
			return id, nil
		}
	}

	return rawID{}, &Error{Kind: ErrUnresolvedReference, RefPath: path.String(), ExpectedType: expected, Message: "no starting scope resolved " + path.String()}
}

// enclosingScopeChain returns from, then each ancestor up to and including
// root, innermost first (§4.4 step 1).
func enclosingScopeChain(m *ItemMap, from ItemId[Scope]) []ItemId[Scope] {
	var chain []ItemId[Scope]
	current := from
	for {
		chain = append(chain, current)
		s, err := Get(m, current)
		if err != nil || !s.data.HasParentID {
			break
		}
		current = s.data.ParentID
	}
	return chain
}
