package schema

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the error kinds of §7.
type ErrorKind int

const (
	// ErrFileNotFound: the file provider returned not-found.
	ErrFileNotFound ErrorKind = iota
	// ErrParseError: the parser rejected a manifest.
	ErrParseError
	// ErrDuplicateScope: a top-level scope name is already in use under root.
	ErrDuplicateScope
	// ErrCircularInclude: a manifest transitively includes/depends on itself.
	ErrCircularInclude
	// ErrUnresolvedReference: name lookup exhausted all starting scopes.
	ErrUnresolvedReference
	// ErrUnresolvedValue: a textual value could not be interpreted.
	ErrUnresolvedValue
	// ErrTypeMismatch: a lookup succeeded but the item's type doesn't match.
	ErrTypeMismatch
	// ErrIdentifierInvalid: identifier validation rejected a string.
	ErrIdentifierInvalid
	// ErrAliasingViolation: the arena's mutable-borrow policy was violated.
	ErrAliasingViolation
	// ErrDangling: a handle pointed past the end of the arena (corruption).
	ErrDangling
)

func (k ErrorKind) String() string {
	switch k {
	case ErrFileNotFound:
		return "FileNotFound"
	case ErrParseError:
		return "ParseError"
	case ErrDuplicateScope:
		return "DuplicateScope"
	case ErrCircularInclude:
		return "CircularInclude"
	case ErrUnresolvedReference:
		return "UnresolvedReference"
	case ErrUnresolvedValue:
		return "UnresolvedValue"
	case ErrTypeMismatch:
		return "TypeMismatch"
	case ErrIdentifierInvalid:
		return "IdentifierInvalid"
	case ErrAliasingViolation:
		return "AliasingViolation"
	case ErrDangling:
		return "Dangling"
	default:
		return "Unknown"
	}
}

// Error is the structured error type produced by every schema operation.
// ManifestPath is set by file-provider, parse, include, circular-include,
// duplicate-scope and duplicate component/concept/message name errors;
// errors from identifier validation, path parsing, duplicate enum names,
// reference lookup and value resolution leave it empty. RefPath carries the
// dotted path of the offending reference where one applies.
type Error struct {
	Kind ErrorKind

	// ManifestPath is the canonical path of the containing manifest, if known.
	ManifestPath string
	// RefPath is the dotted path of the offending reference, if applicable.
	RefPath string
	// ExpectedType names the item kind a reference was expected to resolve to.
	ExpectedType ItemType
	// Raw is the raw (possibly invalid) identifier text, for IdentifierInvalid.
	Raw string

	Message string
	Wrapped error
}

func (e *Error) Error() string {
	if e.ManifestPath != "" {
		return fmt.Sprintf("%s: %s (manifest %s)", e.Kind, e.Message, e.ManifestPath)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Wrapped }

// Is supports errors.Is comparisons against other *Error values by Kind
// equality.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// withContext returns a copy of e annotated with the manifest path that was
// being processed when the error surfaced, if not already set.
func (e *Error) withContext(manifestPath string) *Error {
	if e.ManifestPath != "" {
		return e
	}
	clone := *e
	clone.ManifestPath = manifestPath
	return &clone
}

// wrapf builds an Error of kind scoped to manifestPath, wrapping a lower-level
// error (a parse failure, a missing file) with a formatted message.
func wrapf(kind ErrorKind, manifestPath string, wrapped error, format string, args ...any) *Error {
	return &Error{Kind: kind, ManifestPath: manifestPath, Message: fmt.Sprintf(format, args...), Wrapped: wrapped}
}
