package schema

// ConceptComponentEntry is one (component, default value) pair of a
// concept's component set, kept in declaration order (§3 Concept:
// "insertion order preserved for diagnostics; lookup by handle equality
// after resolution").
type ConceptComponentEntry struct {
	Component ResolvableItemId[Component]
	Value     ResolvableValue
}

// Concept declares a reusable bundle of components with default values,
// optionally extending other concepts (§3 Concept).
type Concept struct {
	data ItemData

	Name        string
	Description string

	Extends    []ResolvableItemId[Concept]
	Components []ConceptComponentEntry
}

func (c Concept) Data() ItemData { return c.data }
func (c Concept) Kind() ItemType { return ItemTypeConcept }

func newConcept(data ItemData, name, description string, extends []ResolvableItemId[Concept], components []ConceptComponentEntry) Concept {
	return Concept{
		data:        data,
		Name:        name,
		Description: description,
		Extends:     append([]ResolvableItemId[Concept](nil), extends...),
		Components:  append([]ConceptComponentEntry(nil), components...),
	}
}

// resolveConcept resolves extends and components, then propagates inherited
// components from each ancestor (§4.6 "Concept. extends resolves to handles;
// after resolution, each ancestor's components (recursively) are merged in
// ... earlier extends entries dominate ... but own entries always win").
//
// resolveConceptRef resolves each ancestor (via resolveConceptByHandle)
// before returning its handle here, regardless of scope-tree traversal
// order, so an ancestor's Components is always already fully merged by
// the time this function reads it.
func resolveConcept(rc *resolveContext, c Concept) (Concept, error) {
	resolvedExtends := make([]ResolvableItemId[Concept], len(c.Extends))
	for i, e := range c.Extends {
		r, err := rc.resolveConceptRef(e)
		if err != nil {
			return Concept{}, err
		}
		resolvedExtends[i] = r
	}
	c.Extends = resolvedExtends

	ownComponents := make([]ConceptComponentEntry, len(c.Components))
	byHandle := map[rawID]int{} // component handle -> index into merged, for own-wins dedup
	merged := make([]ConceptComponentEntry, 0, len(c.Components))

	for i, entry := range c.Components {
		compRef, err := rc.resolveComponentRef(entry.Component)
		if err != nil {
			return Concept{}, err
		}
		typeHandle, err := rc.componentTypeHandle(compRef.Handle())
		if err != nil {
			return Concept{}, err
		}
		val, err := rc.resolveValue(entry.Value, typeHandle)
		if err != nil {
			return Concept{}, err
		}
		ownComponents[i] = ConceptComponentEntry{Component: compRef, Value: val}
	}
	for _, entry := range ownComponents {
		byHandle[entry.Component.Handle().raw] = len(merged)
		merged = append(merged, entry)
	}

	// Earlier extends entries dominate later ones; own entries always win
	// over every ancestor. Walk extends in order, only adding an ancestor's
	// component if no entry (own or from an earlier ancestor) already claims it.
	for _, ext := range c.Extends {
		ancestor, err := Get(rc.items, ext.Handle())
		if err != nil {
			return Concept{}, err
		}
		for _, ancEntry := range ancestor.Components {
			if _, exists := byHandle[ancEntry.Component.Handle().raw]; exists {
				continue
			}
			byHandle[ancEntry.Component.Handle().raw] = len(merged)
			merged = append(merged, ancEntry)
		}
	}

	c.Components = merged
	return c, nil
}
