package schema

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// IdentifierSource distinguishes where an identifier came from, for
// error messages (§7 IdentifierInvalid.source).
type IdentifierSource int

const (
	// IdentifierSourceSnake marks a snake_case identifier construction.
	IdentifierSourceSnake IdentifierSource = iota
	// IdentifierSourcePascal marks a PascalCase identifier construction.
	IdentifierSourcePascal
)

func (s IdentifierSource) String() string {
	switch s {
	case IdentifierSourceSnake:
		return "snake_case"
	case IdentifierSourcePascal:
		return "PascalCase"
	default:
		return "unknown"
	}
}

// identifierBansActive is the one-shot, process-wide ban flag (§5, §9).
// It transitions off -> on exactly once; repeated activations are no-ops.
// Construction of identifiers before activation never checks the banned
// set, even if the identifier is built with a banned spelling.
var identifierBansActive atomic.Bool

// bannedIdentifiers is the configurable banned set. These are names that
// would collide with generated-code keywords in the embedding runtime;
// they are rejected only once bans are active.
var bannedIdentifiers = map[string]struct{}{
	"type": {}, "id": {}, "self": {}, "super": {},
	"component": {}, "concept": {}, "message": {}, "attribute": {},
}

// ActivateIdentifierBans flips the process-wide ban flag on. Idempotent:
// a second call is a no-op. New calls this after bootstrapping the root
// scope and loading the built-in schema manifest, so built-in schema
// identifiers are constructed before activation and user manifests see the
// restricted set.
func ActivateIdentifierBans() {
	identifierBansActive.Store(true)
}

// ResetIdentifierBansForTest clears the ban flag. Exists only so tests
// that need unbanned identifiers in isolation can run independently of
// test execution order; production code never calls this.
func ResetIdentifierBansForTest() {
	identifierBansActive.Store(false)
}

func isBanned(raw string) bool {
	if !identifierBansActive.Load() {
		return false
	}
	_, banned := bannedIdentifiers[raw]
	return banned
}

// SnakeCaseIdentifier is a validated snake_case identifier: first character
// a lowercase letter or underscore, remaining characters lowercase letters,
// digits, or underscores. The zero value is the empty identifier, used
// only for the unnamed root scope.
type SnakeCaseIdentifier struct {
	raw string
}

// NewSnakeCaseIdentifier validates raw and returns the identifier, or an
// IdentifierInvalid error.
func NewSnakeCaseIdentifier(raw string) (SnakeCaseIdentifier, error) {
	if raw != "" {
		if err := validateSnake(raw); err != nil {
			return SnakeCaseIdentifier{}, err
		}
		if isBanned(raw) {
			return SnakeCaseIdentifier{}, &Error{Kind: ErrIdentifierInvalid, Raw: raw, Message: fmt.Sprintf("identifier %q is banned", raw)}
		}
	}
	return SnakeCaseIdentifier{raw: raw}, nil
}

// MustSnakeCaseIdentifier is like NewSnakeCaseIdentifier but panics on error.
// Intended for literal identifiers known at compile time.
func MustSnakeCaseIdentifier(raw string) SnakeCaseIdentifier {
	id, err := NewSnakeCaseIdentifier(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the raw identifier text.
func (i SnakeCaseIdentifier) String() string { return i.raw }

// IsEmpty reports whether this is the unnamed root identifier.
func (i SnakeCaseIdentifier) IsEmpty() bool { return i.raw == "" }

func validateSnake(raw string) error {
	for i, r := range raw {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return &Error{Kind: ErrIdentifierInvalid, Raw: raw, Message: "snake_case identifier cannot start with a digit"}
			}
		case r == '_':
		default:
			return &Error{Kind: ErrIdentifierInvalid, Raw: raw, Message: fmt.Sprintf("invalid character %q in snake_case identifier", r)}
		}
	}
	return nil
}

// PascalCaseIdentifier is a validated PascalCase identifier: first
// character an uppercase letter, remaining characters letters or digits.
type PascalCaseIdentifier struct {
	raw string
}

// NewPascalCaseIdentifier validates raw and returns the identifier, or an
// IdentifierInvalid error.
func NewPascalCaseIdentifier(raw string) (PascalCaseIdentifier, error) {
	if err := validatePascal(raw); err != nil {
		return PascalCaseIdentifier{}, err
	}
	if isBanned(raw) {
		return PascalCaseIdentifier{}, &Error{Kind: ErrIdentifierInvalid, Raw: raw, Message: fmt.Sprintf("identifier %q is banned", raw)}
	}
	return PascalCaseIdentifier{raw: raw}, nil
}

// MustPascalCaseIdentifier is like NewPascalCaseIdentifier but panics on error.
func MustPascalCaseIdentifier(raw string) PascalCaseIdentifier {
	id, err := NewPascalCaseIdentifier(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the raw identifier text.
func (i PascalCaseIdentifier) String() string { return i.raw }

func validatePascal(raw string) error {
	if raw == "" {
		return &Error{Kind: ErrIdentifierInvalid, Raw: raw, Message: "PascalCase identifier cannot be empty"}
	}
	for i, r := range raw {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= 'a' && r <= 'z':
			if i == 0 {
				return &Error{Kind: ErrIdentifierInvalid, Raw: raw, Message: "PascalCase identifier must start with an uppercase letter"}
			}
		case r >= '0' && r <= '9':
			if i == 0 {
				return &Error{Kind: ErrIdentifierInvalid, Raw: raw, Message: "PascalCase identifier cannot start with a digit"}
			}
		default:
			return &Error{Kind: ErrIdentifierInvalid, Raw: raw, Message: fmt.Sprintf("invalid character %q in PascalCase identifier", r)}
		}
	}
	return nil
}

// Identifier is either a SnakeCaseIdentifier or a PascalCaseIdentifier,
// used wherever an item's data.id needs to carry either casing (scopes and
// components are snake; messages, types, and attributes are Pascal).
type Identifier struct {
	snake     SnakeCaseIdentifier
	pascal    PascalCaseIdentifier
	isPascal  bool
}

// IdentifierFromSnake wraps a SnakeCaseIdentifier as an Identifier.
func IdentifierFromSnake(id SnakeCaseIdentifier) Identifier {
	return Identifier{snake: id}
}

// IdentifierFromPascal wraps a PascalCaseIdentifier as an Identifier.
func IdentifierFromPascal(id PascalCaseIdentifier) Identifier {
	return Identifier{pascal: id, isPascal: true}
}

// String returns the raw identifier text, regardless of casing.
func (i Identifier) String() string {
	if i.isPascal {
		return i.pascal.String()
	}
	return i.snake.String()
}

// AsSnake returns the snake-case form, failing if this identifier is Pascal.
func (i Identifier) AsSnake() (SnakeCaseIdentifier, error) {
	if i.isPascal {
		return SnakeCaseIdentifier{}, &Error{Kind: ErrIdentifierInvalid, Raw: i.pascal.raw, Message: "expected a snake_case identifier"}
	}
	return i.snake, nil
}

// AsPascal returns the Pascal-case form, failing if this identifier is snake.
func (i Identifier) AsPascal() (PascalCaseIdentifier, error) {
	if !i.isPascal {
		return PascalCaseIdentifier{}, &Error{Kind: ErrIdentifierInvalid, Raw: i.snake.raw, Message: "expected a PascalCase identifier"}
	}
	return i.pascal, nil
}

// Path is an ordered, non-empty sequence of dotted path segments. An
// absolute (root-relative) path is marked by a flag; its segments hold no
// root sentinel.
type Path struct {
	segments []string
	absolute bool
}

// ParsePath splits a dotted textual reference into a Path. A leading "::"
// or leading "." marks an absolute path (root-relative); anything else is
// scope-relative.
func ParsePath(raw string) (Path, error) {
	if raw == "" {
		return Path{}, &Error{Kind: ErrIdentifierInvalid, Raw: raw, Message: "path cannot be empty"}
	}
	absolute := false
	trimmed := raw
	switch {
	case strings.HasPrefix(raw, "::"):
		absolute = true
		trimmed = strings.TrimPrefix(raw, "::")
	case strings.HasPrefix(raw, "."):
		absolute = true
		trimmed = strings.TrimPrefix(raw, ".")
	}
	if trimmed == "" {
		return Path{}, &Error{Kind: ErrIdentifierInvalid, Raw: raw, Message: "path has no segments"}
	}
	segments := strings.Split(trimmed, ".")
	for _, s := range segments {
		if s == "" {
			return Path{}, &Error{Kind: ErrIdentifierInvalid, Raw: raw, Message: "path contains an empty segment"}
		}
	}
	return Path{segments: segments, absolute: absolute}, nil
}

// NewRelativePath builds a relative Path directly from segments, without
// textual parsing. Used internally when splitting a manifest's dotted
// declaration path.
func NewRelativePath(segments ...string) Path {
	return Path{segments: append([]string(nil), segments...)}
}

// IsAbsolute reports whether the path is root-relative.
func (p Path) IsAbsolute() bool { return p.absolute }

// Segments returns the path's segments in order.
func (p Path) Segments() []string { return p.segments }

// ScopeAndItem splits the path into its leading scope-path segments and
// its final item segment, per §4.1.
func (p Path) ScopeAndItem() (scopePath Path, item string) {
	if len(p.segments) == 0 {
		return Path{absolute: p.absolute}, ""
	}
	last := p.segments[len(p.segments)-1]
	prefix := p.segments[:len(p.segments)-1]
	return Path{segments: append([]string(nil), prefix...), absolute: p.absolute}, last
}

// String renders the path back to dotted textual form.
func (p Path) String() string {
	s := strings.Join(p.segments, ".")
	if p.absolute {
		return "::" + s
	}
	return s
}
