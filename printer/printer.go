// Package printer renders a resolved schema.Semantic graph back to text: a
// human-readable indented tree, and a round-trip manifest form that
// internal/manifest can parse back into an equivalent graph (spec §1 "The
// printer/pretty-dumper: a thin consumer of the resolved graph").
package printer

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/embercore/ember/schema"
)

// Tree writes an indented, human-readable dump of every scope under root,
// in declaration order, following the same traversal used by schema.Resolve
// (children first is not required here; printing is read-only).
func Tree(w io.Writer, items *schema.ItemMap, root schema.ItemId[schema.Scope]) error {
	return printScope(w, items, root, 0)
}

func printScope(w io.Writer, items *schema.ItemMap, id schema.ItemId[schema.Scope], depth int) error {
	s, err := schema.Get(items, id)
	if err != nil {
		return err
	}
	indent := strings.Repeat("  ", depth)

	for _, name := range s.TypeOrder() {
		t, err := schema.Get(items, s.Types()[name])
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%stype %s: %s\n", indent, name, describeType(*t))
	}
	for _, name := range s.AttributeOrder() {
		fmt.Fprintf(w, "%sattribute %s\n", indent, name)
	}
	for _, name := range s.ComponentOrder() {
		c, err := schema.Get(items, s.Components()[name])
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%scomponent %s: %s\n", indent, name, describeComponentType(*c))
	}
	for _, name := range s.ConceptOrder() {
		fmt.Fprintf(w, "%sconcept %s\n", indent, name)
	}
	for _, name := range s.MessageOrder() {
		fmt.Fprintf(w, "%smessage %s\n", indent, name)
	}
	for _, name := range s.ScopeOrder() {
		fmt.Fprintf(w, "%sscope %s:\n", indent, name)
		if err := printScope(w, items, s.Scopes()[name], depth+1); err != nil {
			return err
		}
	}
	return nil
}

func describeType(t schema.Type) string {
	switch t.Tag {
	case schema.TypeTagPrimitive:
		return t.Primitive.String()
	case schema.TypeTagVec:
		return "Vec<...>"
	case schema.TypeTagOption:
		return "Option<...>"
	case schema.TypeTagEnum:
		names := make([]string, len(t.Members))
		for i, m := range t.Members {
			names[i] = m.Name.String()
		}
		sort.Strings(names)
		return "Enum{" + strings.Join(names, ",") + "}"
	default:
		return "?"
	}
}

func describeComponentType(c schema.Component) string {
	if !c.Type.IsResolved() {
		return c.Type.Path().String()
	}
	return "<resolved>"
}

// Manifest renders the declarations owned directly by scope (not its
// children) back into the same dotted-path manifest shape
// internal/manifest.Decode consumes, for the round-trip property (spec §8
// R1). Only unresolved-origin textual fields that survive resolution
// unambiguously (type names, attribute names, scalar defaults) round-trip;
// Vec/Option/Enum wrapper types print their element/members inline since
// they have no standalone name to reference.
func Manifest(w io.Writer, items *schema.ItemMap, id schema.ItemId[schema.Scope]) error {
	s, err := schema.Get(items, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "[ember]\nid = %q\n\n", s.OriginalID)

	for _, name := range s.ComponentOrder() {
		c, err := schema.Get(items, s.Components()[name])
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "[components.%q]\n", name)
		if c.Name != "" {
			fmt.Fprintf(w, "name = %q\n", c.Name)
		}
		fmt.Fprintf(w, "type = %q\n", typeRefName(items, c.Type))
		if len(c.Attributes) > 0 {
			attrNames := make([]string, len(c.Attributes))
			for i, a := range c.Attributes {
				attrNames[i] = attributeRefName(items, a)
			}
			fmt.Fprintf(w, "attributes = [%s]\n", quotedList(attrNames))
		}
		if c.Default != nil {
			fmt.Fprintf(w, "default = %q\n", defaultToken(*c.Default))
		}
		fmt.Fprintln(w)
	}

	for _, name := range s.ConceptOrder() {
		con, err := schema.Get(items, s.Concepts()[name])
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "[concepts.%q]\n", name)
		if con.Name != "" {
			fmt.Fprintf(w, "name = %q\n", con.Name)
		}
		if len(con.Extends) > 0 {
			extendsNames := make([]string, len(con.Extends))
			for i, e := range con.Extends {
				extendsNames[i] = conceptRefName(items, e)
			}
			fmt.Fprintf(w, "extends = [%s]\n", quotedList(extendsNames))
		}
		fmt.Fprintln(w)
		if len(con.Components) > 0 {
			fmt.Fprintf(w, "[concepts.%q.components]\n", name)
			for _, entry := range con.Components {
				fmt.Fprintf(w, "%q = %q\n", componentRefName(items, entry.Component), defaultToken(entry.Value))
			}
			fmt.Fprintln(w)
		}
	}

	for _, name := range s.MessageOrder() {
		msg, err := schema.Get(items, s.Messages()[name])
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "[messages.%q]\n", name)
		if msg.Description != "" {
			fmt.Fprintf(w, "description = %q\n", msg.Description)
		}
		fmt.Fprintln(w)
		if len(msg.Fields) > 0 {
			fmt.Fprintf(w, "[messages.%q.fields]\n", name)
			for _, f := range msg.Fields {
				fmt.Fprintf(w, "%s = %q\n", f.Name, typeRefName(items, f.Type))
			}
			fmt.Fprintln(w)
		}
	}

	return nil
}

func quotedList(items []string) string {
	parts := make([]string, len(items))
	for i, s := range items {
		parts[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(parts, ", ")
}

func attributeRefName(items *schema.ItemMap, ref schema.ResolvableItemId[schema.Attribute]) string {
	if !ref.IsResolved() {
		return ref.Path().String()
	}
	a, err := schema.Get(items, ref.Handle())
	if err != nil {
		return "?"
	}
	return a.Data().ID.String()
}

func conceptRefName(items *schema.ItemMap, ref schema.ResolvableItemId[schema.Concept]) string {
	if !ref.IsResolved() {
		return ref.Path().String()
	}
	c, err := schema.Get(items, ref.Handle())
	if err != nil {
		return "?"
	}
	return c.Data().ID.String()
}

func componentRefName(items *schema.ItemMap, ref schema.ResolvableItemId[schema.Component]) string {
	if !ref.IsResolved() {
		return ref.Path().String()
	}
	c, err := schema.Get(items, ref.Handle())
	if err != nil {
		return "?"
	}
	return c.Data().ID.String()
}

func defaultToken(v schema.ResolvableValue) string {
	if !v.IsResolved() {
		return v.Token()
	}
	val := v.Value()
	switch val.Tag {
	case schema.ValueEnum:
		return val.EnumVariant.String()
	case schema.ValueScalar:
		return scalarToken(val.Scalar)
	default:
		return ""
	}
}

func scalarToken(s schema.ScalarValue) string {
	switch s.Kind {
	case schema.ScalarBool:
		return fmt.Sprintf("%v", s.Bool)
	case schema.ScalarString:
		return s.Str
	case schema.ScalarF32:
		return fmt.Sprintf("%v", s.F32)
	case schema.ScalarF64:
		return fmt.Sprintf("%v", s.F64)
	case schema.ScalarI32:
		return fmt.Sprintf("%v", s.I32)
	case schema.ScalarI64:
		return fmt.Sprintf("%v", s.I64)
	case schema.ScalarU8:
		return fmt.Sprintf("%v", s.U8)
	case schema.ScalarU32:
		return fmt.Sprintf("%v", s.U32)
	case schema.ScalarU64:
		return fmt.Sprintf("%v", s.U64)
	case schema.ScalarEntityID:
		return s.EntityID
	default:
		return ""
	}
}

func typeRefName(items *schema.ItemMap, ref schema.ResolvableItemId[schema.Type]) string {
	if !ref.IsResolved() {
		return ref.Path().String()
	}
	t, err := schema.Get(items, ref.Handle())
	if err != nil {
		return "?"
	}
	switch t.Tag {
	case schema.TypeTagVec:
		return "Vec<" + typeRefName(items, t.Vec) + ">"
	case schema.TypeTagOption:
		return "Option<" + typeRefName(items, t.Option) + ">"
	}
	return describeType(*t)
}
