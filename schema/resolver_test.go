package schema

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func loadAndResolve(t *testing.T, manifests map[string]Manifest, entryContents string) (*ItemMap, ItemId[Scope]) {
	t.Helper()
	ResetIdentifierBansForTest()
	t.Cleanup(ResetIdentifierBansForTest)

	items := NewItemMap()
	root, _ := Bootstrap(items)
	loader := NewLoader(items, root, testParser(manifests))

	provider := ArrayFileProvider{Files: []FileEntry{{Name: "ambient.toml", Contents: entryContents}}}
	_, err := loader.AddFile("ambient.toml", provider, ItemSourceUser, "")
	require.NoError(t, err)

	require.NoError(t, Resolve(items, root))
	return items, root
}

func TestResolveEmptyManifestSucceeds(t *testing.T) {
	manifest := Manifest{Ember: EmberBlock{ID: "game"}}
	loadAndResolve(t, map[string]Manifest{"game-manifest": manifest}, "game-manifest")
}

func TestResolveSingleComponentAgainstPrimitive(t *testing.T) {
	manifest := Manifest{
		Ember:      EmberBlock{ID: "game"},
		Components: []ComponentEntry{{Path: "health", Decl: ComponentDecl{Name: "health", Type: "U32"}}},
	}
	items, root := loadAndResolve(t, map[string]Manifest{"game-manifest": manifest}, "game-manifest")

	rootScope, err := Get(items, root)
	require.NoError(t, err)
	gameID := rootScope.scopes["game"]
	gameScope, err := Get(items, gameID)
	require.NoError(t, err)

	compID := gameScope.components["health"]
	comp, err := Get(items, compID)
	require.NoError(t, err)
	require.True(t, comp.Type.IsResolved())

	typ, err := Get(items, comp.Type.Handle())
	require.NoError(t, err)
	require.Equal(t, TypeTagPrimitive, typ.Tag)
	require.Equal(t, ScalarU32, typ.Primitive)
}

func TestResolveComponentDefaultValue(t *testing.T) {
	def := "7"
	manifest := Manifest{
		Ember:      EmberBlock{ID: "game"},
		Components: []ComponentEntry{{Path: "mana", Decl: ComponentDecl{Name: "mana", Type: "U32", Default: &def}}},
	}
	items, root := loadAndResolve(t, map[string]Manifest{"game-manifest": manifest}, "game-manifest")

	rootScope, err := Get(items, root)
	require.NoError(t, err)
	gameScope, err := Get(items, rootScope.scopes["game"])
	require.NoError(t, err)
	comp, err := Get(items, gameScope.components["mana"])
	require.NoError(t, err)

	require.NotNil(t, comp.Default)
	require.True(t, comp.Default.IsResolved())
	require.Equal(t, uint32(7), comp.Default.Value().Scalar.U32)
}

func TestResolveConceptInheritanceOwnWinsOverAncestor(t *testing.T) {
	manifest := Manifest{
		Ember: EmberBlock{ID: "game"},
		Components: []ComponentEntry{
			{Path: "health", Decl: ComponentDecl{Name: "health", Type: "U32"}},
		},
		Concepts: []ConceptEntry{
			{Path: "base", Decl: ConceptDecl{
				Name: "base",
				Components: []ConceptComponentDecl{
					{Ref: "health", Value: "10"},
				},
			}},
			{Path: "unit", Decl: ConceptDecl{
				Name:    "unit",
				Extends: []string{"base"},
				Components: []ConceptComponentDecl{
					{Ref: "health", Value: "100"},
				},
			}},
		},
	}
	items, root := loadAndResolve(t, map[string]Manifest{"game-manifest": manifest}, "game-manifest")

	rootScope, err := Get(items, root)
	require.NoError(t, err)
	gameScope, err := Get(items, rootScope.scopes["game"])
	require.NoError(t, err)

	unit, err := Get(items, gameScope.concepts["unit"])
	require.NoError(t, err)
	require.Len(t, unit.Components, 1, "own entry should shadow the inherited one, not duplicate it")
	require.Equal(t, uint32(100), unit.Components[0].Value.Value().Scalar.U32)
}

func TestResolveConceptInheritanceMergesNonConflictingAncestorEntries(t *testing.T) {
	manifest := Manifest{
		Ember: EmberBlock{ID: "game"},
		Components: []ComponentEntry{
			{Path: "health", Decl: ComponentDecl{Name: "health", Type: "U32"}},
			{Path: "mana", Decl: ComponentDecl{Name: "mana", Type: "U32"}},
		},
		Concepts: []ConceptEntry{
			{Path: "base", Decl: ConceptDecl{
				Name: "base",
				Components: []ConceptComponentDecl{
					{Ref: "health", Value: "10"},
				},
			}},
			{Path: "unit", Decl: ConceptDecl{
				Name:    "unit",
				Extends: []string{"base"},
				Components: []ConceptComponentDecl{
					{Ref: "mana", Value: "5"},
				},
			}},
		},
	}
	items, root := loadAndResolve(t, map[string]Manifest{"game-manifest": manifest}, "game-manifest")

	rootScope, err := Get(items, root)
	require.NoError(t, err)
	gameScope, err := Get(items, rootScope.scopes["game"])
	require.NoError(t, err)

	unit, err := Get(items, gameScope.concepts["unit"])
	require.NoError(t, err)
	require.Len(t, unit.Components, 2)
}

func TestResolveDependencyComponentLookup(t *testing.T) {
	lib := Manifest{
		Ember:      EmberBlock{ID: "lib"},
		Components: []ComponentEntry{{Path: "health", Decl: ComponentDecl{Name: "health", Type: "U32"}}},
	}
	game := Manifest{
		Ember:        EmberBlock{ID: "game"},
		Dependencies: []DependencyEntry{{Name: "lib", Dependency: Dependency{Path: "libdir"}}},
		Concepts: []ConceptEntry{
			{Path: "unit", Decl: ConceptDecl{
				Name: "unit",
				Components: []ConceptComponentDecl{
					{Ref: "health", Value: "100"},
				},
			}},
		},
	}

	ResetIdentifierBansForTest()
	t.Cleanup(ResetIdentifierBansForTest)

	items := NewItemMap()
	root, _ := Bootstrap(items)
	loader := NewLoader(items, root, testParser(map[string]Manifest{
		"game-manifest": game,
		"lib-manifest":  lib,
	}))
	provider := ArrayFileProvider{Files: []FileEntry{
		{Name: "ambient.toml", Contents: "game-manifest"},
		{Name: "libdir/ambient.toml", Contents: "lib-manifest"},
	}}
	_, err := loader.AddFile("ambient.toml", provider, ItemSourceUser, "")
	require.NoError(t, err)
	require.NoError(t, Resolve(items, root))

	rootScope, err := Get(items, root)
	require.NoError(t, err)
	gameScope, err := Get(items, rootScope.scopes["game"])
	require.NoError(t, err)
	unit, err := Get(items, gameScope.concepts["unit"])
	require.NoError(t, err)
	require.True(t, unit.Components[0].Component.IsResolved())
}

func TestResolveEnumComponentDefault(t *testing.T) {
	manifest := Manifest{
		Ember: EmberBlock{ID: "game"},
		Enums: []EnumEntry{
			{Name: "Color", Decl: EnumDecl{Members: []EnumMemberDecl{{Name: "Red"}, {Name: "Blue"}}}},
		},
		Components: []ComponentEntry{
			{Path: "tint", Decl: ComponentDecl{Name: "tint", Type: "Color", Default: strPtr("Blue")}},
		},
	}
	items, root := loadAndResolve(t, map[string]Manifest{"game-manifest": manifest}, "game-manifest")

	rootScope, err := Get(items, root)
	require.NoError(t, err)
	gameScope, err := Get(items, rootScope.scopes["game"])
	require.NoError(t, err)
	comp, err := Get(items, gameScope.components["tint"])
	require.NoError(t, err)

	require.True(t, comp.Default.IsResolved())
	require.Equal(t, ValueEnum, comp.Default.Value().Tag)
	require.Equal(t, "Blue", comp.Default.Value().EnumVariant.String())
}

// dumpScope renders id and every item reachable under it, including
// unexported arena/handle internals (fmt's reflection-based %+v reaches
// unexported fields without the panic cmp.Diff would raise on them), so two
// dumps taken before/after a second Resolve can be cmp.Diff'd for true
// structural equality (§8 I2), not just "no error".
func dumpScope(t *testing.T, items *ItemMap, id ItemId[Scope]) string {
	t.Helper()
	s, err := Get(items, id)
	require.NoError(t, err)

	var sb strings.Builder
	fmt.Fprintf(&sb, "scope %+v\n", *s)
	for _, name := range s.typeOrder {
		ty, err := Get(items, s.types[name])
		require.NoError(t, err)
		fmt.Fprintf(&sb, "type %s %+v\n", name, *ty)
	}
	for _, name := range s.componentOrder {
		c, err := Get(items, s.components[name])
		require.NoError(t, err)
		fmt.Fprintf(&sb, "component %s %+v\n", name, *c)
	}
	for _, name := range s.conceptOrder {
		c, err := Get(items, s.concepts[name])
		require.NoError(t, err)
		fmt.Fprintf(&sb, "concept %s %+v\n", name, *c)
	}
	for _, name := range s.messageOrder {
		m, err := Get(items, s.messages[name])
		require.NoError(t, err)
		fmt.Fprintf(&sb, "message %s %+v\n", name, *m)
	}
	for _, name := range s.scopeOrder {
		sb.WriteString(dumpScope(t, items, s.scopes[name]))
	}
	return sb.String()
}

func TestResolveIsIdempotent(t *testing.T) {
	manifest := Manifest{
		Ember: EmberBlock{ID: "game"},
		Components: []ComponentEntry{
			{Path: "health", Decl: ComponentDecl{Name: "health", Type: "U32", Attributes: []string{"Networked"}, Default: strPtr("10")}},
		},
		Concepts: []ConceptEntry{
			{Path: "base", Decl: ConceptDecl{Name: "base", Components: []ConceptComponentDecl{{Ref: "health", Value: "5"}}}},
			{Path: "unit", Decl: ConceptDecl{Name: "unit", Extends: []string{"base"}}},
		},
	}
	items, root := loadAndResolve(t, map[string]Manifest{"game-manifest": manifest}, "game-manifest")

	before := dumpScope(t, items, root)
	require.NoError(t, Resolve(items, root), "resolving an already-resolved graph must be a safe no-op")
	after := dumpScope(t, items, root)

	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("resolving an already-resolved graph a second time changed its structure (-before +after):\n%s", diff)
	}
}

func strPtr(s string) *string { return &s }
