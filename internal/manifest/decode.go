// Package manifest decodes the TOML-shaped manifest files the schema core
// treats as an external grammar (spec §1, §6) into schema.Manifest values.
package manifest

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/embercore/ember/schema"
)

type rawManifest struct {
	Ember struct {
		ID       string   `toml:"id"`
		Includes []string `toml:"includes"`
	} `toml:"ember"`
	Dependencies map[string]rawDependency `toml:"dependencies"`
	Components   map[string]rawComponent  `toml:"components"`
	Concepts     map[string]rawConcept    `toml:"concepts"`
	Messages     map[string]rawMessage    `toml:"messages"`
	Enums        map[string]rawEnum       `toml:"enums"`
}

type rawDependency struct {
	Path string `toml:"path"`
}

type rawComponent struct {
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Type        string   `toml:"type"`
	Attributes  []string `toml:"attributes"`
	Default     any      `toml:"default"`
}

type rawConcept struct {
	Name        string         `toml:"name"`
	Description string         `toml:"description"`
	Extends     []string       `toml:"extends"`
	Components  map[string]any `toml:"components"`
}

type rawMessage struct {
	Description string            `toml:"description"`
	Fields      map[string]string `toml:"fields"`
}

type rawEnumMember struct {
	Name        string
	Description string
}

type rawEnum struct {
	// Members is [[name, description], ...]; go-toml decodes a TOML array
	// of two-element arrays into [][]string directly.
	Members [][]string `toml:"members"`
}

// Decode parses TOML manifest text into a schema.Manifest. Table keys that
// the spec calls "ordered mappings" (dependencies, components, concepts,
// messages, enums) are sorted alphabetically for a deterministic,
// reproducible declaration order: go-toml/v2 decodes TOML tables into Go
// maps, which carry no positional information to recover the author's
// original order from.
func Decode(text string) (schema.Manifest, error) {
	var raw rawManifest
	if err := toml.Unmarshal([]byte(text), &raw); err != nil {
		return schema.Manifest{}, fmt.Errorf("decoding manifest: %w", err)
	}

	m := schema.Manifest{
		Ember: schema.EmberBlock{ID: raw.Ember.ID, Includes: raw.Ember.Includes},
	}

	for _, name := range sortedKeys(raw.Dependencies) {
		m.Dependencies = append(m.Dependencies, schema.DependencyEntry{
			Name:       name,
			Dependency: schema.Dependency{Path: raw.Dependencies[name].Path},
		})
	}

	for _, path := range sortedKeys(raw.Components) {
		c := raw.Components[path]
		var def *string
		if c.Default != nil {
			s := formatScalar(c.Default)
			def = &s
		}
		m.Components = append(m.Components, schema.ComponentEntry{
			Path: path,
			Decl: schema.ComponentDecl{
				Name:        c.Name,
				Description: c.Description,
				Type:        c.Type,
				Attributes:  c.Attributes,
				Default:     def,
			},
		})
	}

	for _, path := range sortedKeys(raw.Concepts) {
		c := raw.Concepts[path]
		var components []schema.ConceptComponentDecl
		for _, ref := range sortedKeys(c.Components) {
			components = append(components, schema.ConceptComponentDecl{
				Ref:   ref,
				Value: formatScalar(c.Components[ref]),
			})
		}
		m.Concepts = append(m.Concepts, schema.ConceptEntry{
			Path: path,
			Decl: schema.ConceptDecl{
				Name:        c.Name,
				Description: c.Description,
				Extends:     c.Extends,
				Components:  components,
			},
		})
	}

	for _, path := range sortedKeys(raw.Messages) {
		msg := raw.Messages[path]
		var fields []schema.MessageFieldDecl
		for _, name := range sortedKeys(msg.Fields) {
			fields = append(fields, schema.MessageFieldDecl{Name: name, Type: msg.Fields[name]})
		}
		m.Messages = append(m.Messages, schema.MessageEntry{
			Path: path,
			Decl: schema.MessageDecl{Description: msg.Description, Fields: fields},
		})
	}

	for _, name := range sortedKeys(raw.Enums) {
		e := raw.Enums[name]
		var members []schema.EnumMemberDecl
		for _, pair := range e.Members {
			if len(pair) != 2 {
				return schema.Manifest{}, fmt.Errorf("enum %s: member entry must be [name, description]", name)
			}
			members = append(members, schema.EnumMemberDecl{Name: pair[0], Description: pair[1]})
		}
		m.Enums = append(m.Enums, schema.EnumEntry{Name: name, Decl: schema.EnumDecl{Members: members}})
	}

	return m, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatScalar renders a decoded TOML leaf value back to the textual token
// the schema core's value resolution expects (§4.2): numbers and bools
// round-trip through their canonical decimal form, strings pass through.
func formatScalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
