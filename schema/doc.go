// Package schema implements the semantic core of an ember-based
// component/concept/message schema: loading declarative manifests into a
// scope tree, and resolving the cross-manifest references between them
// into a fully-linked graph of stable handles.
package schema
