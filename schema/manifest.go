package schema

// Manifest is the shape an external parser must deliver (§6). The core
// never parses manifest text itself; it only walks this already-parsed
// value. Every ordered-mapping field here is a slice of (key, decl) pairs
// rather than a Go map, so declaration order survives into the scope tree's
// *Order fields for diagnostics and the printer.
type Manifest struct {
	Ember        EmberBlock
	Dependencies []DependencyEntry
	Components   []ComponentEntry
	Concepts     []ConceptEntry
	Messages     []MessageEntry
	Enums        []EnumEntry
}

// EmberBlock is the manifest's `[ember]` header.
type EmberBlock struct {
	ID       string
	Includes []string
}

// Dependency is the only recognized variant, Path (§6): a relative
// directory containing another manifest.
type Dependency struct {
	Path string
}

// DependencyEntry is one entry of the manifest's ordered `dependencies` map.
type DependencyEntry struct {
	Name       string
	Dependency Dependency
}

// ComponentDecl is one component declaration body (§6).
type ComponentDecl struct {
	Name        string
	Description string
	Type        string   // textual type expression
	Attributes  []string // textual references
	Default     *string  // textual value, nil if absent
}

// ComponentEntry pairs a dotted declaration path with its body.
type ComponentEntry struct {
	Path string
	Decl ComponentDecl
}

// ConceptComponentDecl is one entry of a concept's ordered `components` map:
// a textual component reference to a textual default value.
type ConceptComponentDecl struct {
	Ref   string
	Value string
}

// ConceptDecl is one concept declaration body (§6).
type ConceptDecl struct {
	Name        string
	Description string
	Extends     []string // textual references
	Components  []ConceptComponentDecl
}

// ConceptEntry pairs a dotted declaration path with its body.
type ConceptEntry struct {
	Path string
	Decl ConceptDecl
}

// MessageFieldDecl is one field of a message declaration.
type MessageFieldDecl struct {
	Name string // PascalCase
	Type string // textual type expression
}

// MessageDecl is one message declaration body (§6).
type MessageDecl struct {
	Description string
	Fields      []MessageFieldDecl
}

// MessageEntry pairs a dotted declaration path with its body.
type MessageEntry struct {
	Path string
	Decl MessageDecl
}

// EnumMemberDecl is one (name, description) pair of an inline enum.
type EnumMemberDecl struct {
	Name        string // PascalCase
	Description string
}

// EnumDecl is one inline enum declaration body; enums are always local to
// the scope they're declared in (§6: "no scope-path split for enums").
type EnumDecl struct {
	Members []EnumMemberDecl
}

// EnumEntry pairs a PascalCase name with its body.
type EnumEntry struct {
	Name string
	Decl EnumDecl
}
