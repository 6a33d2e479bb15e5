package schema

import (
	"path"
	"strings"
)

// FileProvider abstracts where manifest text comes from (§4.5, §6). Three
// concrete forms are recognized: DiskFileProvider, ArrayFileProvider, and
// ProxyFileProvider.
type FileProvider interface {
	// Get returns the text of relPath, or a FileNotFound error.
	Get(relPath string) (string, error)
	// FullPath canonicalizes relPath for cycle-detection comparisons; two
	// spellings of the same file must canonicalize equal.
	FullPath(relPath string) string
}

// DiskFileProvider reads manifest files from a filesystem directory.
type DiskFileProvider struct {
	Root string
	Read func(fullPath string) (string, error) // injected so tests avoid real disk I/O
}

func (p DiskFileProvider) Get(relPath string) (string, error) {
	text, err := p.Read(p.FullPath(relPath))
	if err != nil {
		return "", &Error{Kind: ErrFileNotFound, ManifestPath: p.FullPath(relPath), Message: err.Error()}
	}
	return text, nil
}

func (p DiskFileProvider) FullPath(relPath string) string {
	return path.Clean(path.Join(p.Root, relPath))
}

// ArrayFileProvider serves manifest text from an in-memory (name, contents)
// list, used to load the built-in schema without touching disk (§6).
type ArrayFileProvider struct {
	Files []FileEntry
}

// FileEntry is one (name, contents) pair served by an ArrayFileProvider.
type FileEntry struct {
	Name     string
	Contents string
}

func (p ArrayFileProvider) Get(relPath string) (string, error) {
	for _, f := range p.Files {
		if f.Name == relPath {
			return f.Contents, nil
		}
	}
	return "", &Error{Kind: ErrFileNotFound, ManifestPath: relPath, Message: "file not found in array provider"}
}

func (p ArrayFileProvider) FullPath(relPath string) string { return path.Clean(relPath) }

// ProxyFileProvider rebases another provider under a subdirectory, used to
// load a named dependency's manifest tree as if it were its own root (§4.5
// step 5, §9 "composing by nesting").
type ProxyFileProvider struct {
	Provider FileProvider
	Base     string
}

func (p ProxyFileProvider) Get(relPath string) (string, error) {
	return p.Provider.Get(path.Join(p.Base, relPath))
}

func (p ProxyFileProvider) FullPath(relPath string) string {
	return p.Provider.FullPath(path.Join(p.Base, relPath))
}

// ManifestParser turns manifest text into a Manifest value; the core treats
// this as an external collaborator (§1, §6) and never parses text itself.
type ManifestParser func(text string) (Manifest, error)

// Loader implements C5: transitive manifest loading, cycle detection,
// canonical-path de-duplication, and scope-tree construction from parsed
// manifests. It leaves every ResolvableItemId and ResolvableValue it
// creates in the Unresolved arm; resolution happens later (C6).
type Loader struct {
	items  *ItemMap
	root   ItemId[Scope]
	parser ManifestParser
}

// NewLoader builds a loader over items rooted at root, using parser to turn
// manifest text into Manifest values.
func NewLoader(items *ItemMap, root ItemId[Scope], parser ManifestParser) *Loader {
	return &Loader{items: items, root: root, parser: parser}
}

// AddFile is the top-level entry point (§4.5): attaches a new scope under
// the root for the manifest at relPath, read through provider. If
// scopeName is empty, the manifest's own ember.id is used. Re-adding the
// same canonical path with the same scope name is idempotent; re-adding a
// different file under a name already in use fails with DuplicateScope.
func (l *Loader) AddFile(relPath string, provider FileProvider, source ItemSource, scopeName string) (ItemId[Scope], error) {
	canonical := provider.FullPath(relPath)

	rootScope, err := Get(l.items, l.root)
	if err != nil {
		return ItemId[Scope]{}, err
	}
	name := scopeName
	if name == "" {
		text, err := provider.Get(relPath)
		if err != nil {
			return ItemId[Scope]{}, err
		}
		manifest, err := l.parser(text)
		if err != nil {
			return ItemId[Scope]{}, wrapf(ErrParseError, canonical, err, "parsing %s", canonical)
		}
		name = manifest.Ember.ID
		if existing, ok := rootScope.scopes[name]; ok {
			if existingScope, err := Get(l.items, existing); err == nil && existingScope.ManifestPath == canonical {
				return existing, nil
			}
			return ItemId[Scope]{}, &Error{Kind: ErrDuplicateScope, ManifestPath: canonical, RefPath: name, Message: "scope name " + name + " already in use"}
		}
		return l.loadTopLevel(relPath, provider, source, name, canonical, manifest)
	}

	if existing, ok := rootScope.scopes[name]; ok {
		if existingScope, err := Get(l.items, existing); err == nil && existingScope.ManifestPath == canonical {
			return existing, nil
		}
		return ItemId[Scope]{}, &Error{Kind: ErrDuplicateScope, ManifestPath: canonical, RefPath: name, Message: "scope name " + name + " already in use"}
	}

	text, err := provider.Get(relPath)
	if err != nil {
		return ItemId[Scope]{}, err
	}
	manifest, err := l.parser(text)
	if err != nil {
		return ItemId[Scope]{}, wrapf(ErrParseError, canonical, err, "parsing %s", canonical)
	}
	return l.loadTopLevel(relPath, provider, source, name, canonical, manifest)
}

func (l *Loader) loadTopLevel(relPath string, provider FileProvider, source ItemSource, name string, canonical string, manifest Manifest) (ItemId[Scope], error) {
	visited := map[string]struct{}{}
	return l.load(relPath, provider, source, l.root, name, canonical, manifest, visited)
}

// AddEmber is a convenience wrapper reading "ambient.toml" from a disk
// directory with User source (§4.5 add_ember).
func (l *Loader) AddEmber(diskPath string, read func(fullPath string) (string, error)) (ItemId[Scope], error) {
	provider := DiskFileProvider{Root: diskPath, Read: read}
	return l.AddFile("ambient.toml", provider, ItemSourceUser, "")
}

// load implements the per-manifest procedure of §4.5, steps 2-8. visited is
// scoped to one top-level AddFile call (not shared across calls), per §4.5
// and the Pending Tasks note on per-call cycle detection.
func (l *Loader) load(relPath string, provider FileProvider, source ItemSource, parent ItemId[Scope], scopeName string, canonical string, manifest Manifest, visited map[string]struct{}) (ItemId[Scope], error) {
	if _, seen := visited[canonical]; seen {
		return ItemId[Scope]{}, &Error{Kind: ErrCircularInclude, ManifestPath: canonical, Message: "circular include of " + canonical}
	}
	visited[canonical] = struct{}{}
	defer delete(visited, canonical)

	snake, err := NewSnakeCaseIdentifier(scopeName)
	if err != nil {
		return ItemId[Scope]{}, err
	}

	scopeData := ItemData{ParentID: parent, HasParentID: true, ID: IdentifierFromSnake(snake), Source: source}
	m := manifest
	newScopeVal := newScope(scopeData, scopeName, canonical, &m)
	scopeID := Add(l.items, newScopeVal)

	parentMut, release, err := GetMut(l.items, parent)
	if err != nil {
		return ItemId[Scope]{}, err
	}
	parentMut.addScope(scopeName, scopeID)
	release()

	for _, inc := range manifest.Ember.Includes {
		incCanonical := provider.FullPath(inc)
		incText, err := provider.Get(inc)
		if err != nil {
			return ItemId[Scope]{}, wrapf(ErrFileNotFound, incCanonical, err, "reading include %s", inc)
		}
		incManifest, err := l.parser(incText)
		if err != nil {
			return ItemId[Scope]{}, wrapf(ErrParseError, incCanonical, err, "parsing %s", incCanonical)
		}
		if _, err := l.load(inc, provider, source, scopeID, incManifest.Ember.ID, incCanonical, incManifest, visited); err != nil {
			return ItemId[Scope]{}, err
		}
	}

	for _, dep := range manifest.Dependencies {
		depProvider := ProxyFileProvider{Provider: provider, Base: dep.Dependency.Path}
		depVisited := map[string]struct{}{}
		depScopeID, err := l.loadDependency(depProvider, source, dep.Name, depVisited)
		if err != nil {
			return ItemId[Scope]{}, err
		}
		scopeMut, release, err := GetMut(l.items, scopeID)
		if err != nil {
			return ItemId[Scope]{}, err
		}
		scopeMut.Dependencies = append(scopeMut.Dependencies, depScopeID)
		release()
	}

	for _, entry := range manifest.Components {
		if err := l.addComponent(canonical, scopeID, source, entry); err != nil {
			return ItemId[Scope]{}, err
		}
	}
	for _, entry := range manifest.Concepts {
		if err := l.addConcept(canonical, scopeID, source, entry); err != nil {
			return ItemId[Scope]{}, err
		}
	}
	for _, entry := range manifest.Messages {
		if err := l.addMessage(canonical, scopeID, source, entry); err != nil {
			return ItemId[Scope]{}, err
		}
	}
	for _, entry := range manifest.Enums {
		if err := l.addEnum(scopeID, source, entry); err != nil {
			return ItemId[Scope]{}, err
		}
	}

	return scopeID, nil
}

// loadDependency loads a named dependency's manifest tree as a fresh
// top-level scope rooted at l.root (§4.5 step 5): "recursively call the
// top-level loader with scope_name = dependency_name and the same source".
func (l *Loader) loadDependency(provider FileProvider, source ItemSource, scopeName string, visited map[string]struct{}) (ItemId[Scope], error) {
	return l.AddFile("ambient.toml", provider, source, scopeName)
}

// splitDeclPath splits a dotted declaration path like "foo.bar.my_comp"
// into its leading scope segments and final item segment.
func splitDeclPath(p string) ([]string, string) {
	segments := strings.Split(p, ".")
	if len(segments) == 1 {
		return nil, segments[0]
	}
	return segments[:len(segments)-1], segments[len(segments)-1]
}

func (l *Loader) targetScope(manifestPath string, startingScope ItemId[Scope], declPath string) (ItemId[Scope], string, error) {
	scopeSegments, item := splitDeclPath(declPath)
	if len(scopeSegments) == 0 {
		return startingScope, item, nil
	}
	target, err := GetOrCreateScopeMut(l.items, manifestPath, startingScope, scopeSegments)
	if err != nil {
		return ItemId[Scope]{}, "", err
	}
	return target, item, nil
}

func (l *Loader) addComponent(manifestPath string, scopeID ItemId[Scope], source ItemSource, entry ComponentEntry) error {
	target, itemName, err := l.targetScope(manifestPath, scopeID, entry.Path)
	if err != nil {
		return err
	}
	snake, err := NewSnakeCaseIdentifier(itemName)
	if err != nil {
		return err
	}
	typeRef, err := parseTypeExpr(l.items, manifestPath, source, target, entry.Decl.Type)
	if err != nil {
		return err
	}
	attrs := make([]ResolvableItemId[Attribute], len(entry.Decl.Attributes))
	for i, a := range entry.Decl.Attributes {
		p, err := ParsePath(a)
		if err != nil {
			return err
		}
		attrs[i] = UnresolvedRef[Attribute](p)
	}
	var def *ResolvableValue
	if entry.Decl.Default != nil {
		v := UnresolvedValue(*entry.Decl.Default)
		def = &v
	}
	comp := newComponent(
		ItemData{ParentID: target, HasParentID: true, ID: IdentifierFromSnake(snake), Source: source},
		entry.Decl.Name, entry.Decl.Description, typeRef, attrs, def,
	)
	compID := Add(l.items, comp)

	targetMut, release, err := GetMut(l.items, target)
	if err != nil {
		return err
	}
	defer release()
	if dupErr, ok := targetMut.addComponent(itemName, compID); !ok {
		return dupErr.withContext(manifestPath)
	}
	return nil
}

func (l *Loader) addConcept(manifestPath string, scopeID ItemId[Scope], source ItemSource, entry ConceptEntry) error {
	target, itemName, err := l.targetScope(manifestPath, scopeID, entry.Path)
	if err != nil {
		return err
	}
	snake, err := NewSnakeCaseIdentifier(itemName)
	if err != nil {
		return err
	}
	extends := make([]ResolvableItemId[Concept], len(entry.Decl.Extends))
	for i, e := range entry.Decl.Extends {
		p, err := ParsePath(e)
		if err != nil {
			return err
		}
		extends[i] = UnresolvedRef[Concept](p)
	}
	components := make([]ConceptComponentEntry, len(entry.Decl.Components))
	for i, c := range entry.Decl.Components {
		p, err := ParsePath(c.Ref)
		if err != nil {
			return err
		}
		components[i] = ConceptComponentEntry{
			Component: UnresolvedRef[Component](p),
			Value:     UnresolvedValue(c.Value),
		}
	}
	concept := newConcept(
		ItemData{ParentID: target, HasParentID: true, ID: IdentifierFromSnake(snake), Source: source},
		entry.Decl.Name, entry.Decl.Description, extends, components,
	)
	conceptID := Add(l.items, concept)

	targetMut, release, err := GetMut(l.items, target)
	if err != nil {
		return err
	}
	defer release()
	if dupErr, ok := targetMut.addConcept(itemName, conceptID); !ok {
		return dupErr.withContext(manifestPath)
	}
	return nil
}

func (l *Loader) addMessage(manifestPath string, scopeID ItemId[Scope], source ItemSource, entry MessageEntry) error {
	target, itemName, err := l.targetScope(manifestPath, scopeID, entry.Path)
	if err != nil {
		return err
	}
	pascal, err := NewPascalCaseIdentifier(itemName)
	if err != nil {
		return err
	}
	fields := make([]MessageField, len(entry.Decl.Fields))
	for i, f := range entry.Decl.Fields {
		fieldName, err := NewPascalCaseIdentifier(f.Name)
		if err != nil {
			return err
		}
		typeRef, err := parseTypeExpr(l.items, manifestPath, source, target, f.Type)
		if err != nil {
			return err
		}
		fields[i] = MessageField{Name: fieldName, Type: typeRef}
	}
	msg := newMessage(
		ItemData{ParentID: target, HasParentID: true, ID: IdentifierFromPascal(pascal), Source: source},
		entry.Decl.Description, fields,
	)
	msgID := Add(l.items, msg)

	targetMut, release, err := GetMut(l.items, target)
	if err != nil {
		return err
	}
	defer release()
	if dupErr, ok := targetMut.addMessage(itemName, msgID); !ok {
		return dupErr.withContext(manifestPath)
	}
	return nil
}

// addEnum adds an inline enum as a Type child of the current scope;
// enums have no scope-path split (§4.5 step 7: "no scope-path split for
// enums — they are local").
func (l *Loader) addEnum(scopeID ItemId[Scope], source ItemSource, entry EnumEntry) error {
	pascal, err := NewPascalCaseIdentifier(entry.Name)
	if err != nil {
		return err
	}
	members := make([]EnumMember, len(entry.Decl.Members))
	for i, m := range entry.Decl.Members {
		name, err := NewPascalCaseIdentifier(m.Name)
		if err != nil {
			return err
		}
		members[i] = EnumMember{Name: name, Description: m.Description}
	}
	enumType := newEnumType(
		ItemData{ParentID: scopeID, HasParentID: true, ID: IdentifierFromPascal(pascal), Source: source},
		members,
	)
	typeID := Add(l.items, enumType)

	scopeMut, release, err := GetMut(l.items, scopeID)
	if err != nil {
		return err
	}
	defer release()
	if dupErr, ok := scopeMut.addType(entry.Name, typeID); !ok {
		return dupErr
	}
	return nil
}

// parseTypeExpr interprets a textual type expression (§6 "Textual type
// expressions"): a bare dotted path names a Type directly; Vec<...> and
// Option<...> wrap an inner expression. Wrapper forms materialize an
// anonymous arena-local Type whose handle is immediately known (so it is
// returned already Resolved), while the inner element stays Unresolved
// until resolve() walks it (§4.6 "Type. Vec and Option resolve their inner
// element type"). The wrapper is parented under scopeID, the scope the
// declaration naming this type expression lives in, so that resolving its
// inner element later looks up relative to that scope rather than root.
func parseTypeExpr(items *ItemMap, manifestPath string, source ItemSource, scopeID ItemId[Scope], expr string) (ResolvableItemId[Type], error) {
	expr = strings.TrimSpace(expr)
	data := ItemData{ParentID: scopeID, HasParentID: true, Source: source}
	switch {
	case strings.HasPrefix(expr, "Vec<") && strings.HasSuffix(expr, ">"):
		inner := expr[len("Vec<") : len(expr)-1]
		innerPath, err := ParsePath(strings.TrimSpace(inner))
		if err != nil {
			return ResolvableItemId[Type]{}, err
		}
		t := newVecType(data, innerPath)
		id := Add(items, t)
		return ResolvedRef[Type](id), nil
	case strings.HasPrefix(expr, "Option<") && strings.HasSuffix(expr, ">"):
		inner := expr[len("Option<") : len(expr)-1]
		innerPath, err := ParsePath(strings.TrimSpace(inner))
		if err != nil {
			return ResolvableItemId[Type]{}, err
		}
		t := newOptionType(data, innerPath)
		id := Add(items, t)
		return ResolvedRef[Type](id), nil
	default:
		p, err := ParsePath(expr)
		if err != nil {
			return ResolvableItemId[Type]{}, err
		}
		return UnresolvedRef[Type](p), nil
	}
}
