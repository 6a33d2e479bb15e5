package schema

// Component declares a single piece of per-entity state (§3 Component).
type Component struct {
	data ItemData

	Name        string
	Description string

	Type       ResolvableItemId[Type]
	Attributes []ResolvableItemId[Attribute]
	Default    *ResolvableValue // nil means no declared default
}

func (c Component) Data() ItemData { return c.data }
func (c Component) Kind() ItemType { return ItemTypeComponent }

func newComponent(data ItemData, name, description string, typeRef ResolvableItemId[Type], attrs []ResolvableItemId[Attribute], def *ResolvableValue) Component {
	return Component{
		data:        data,
		Name:        name,
		Description: description,
		Type:        typeRef,
		Attributes:  append([]ResolvableItemId[Attribute](nil), attrs...),
		Default:     def,
	}
}

// resolveComponent converts every unresolved reference on c into its
// resolved arm (§4.4 "Component. type_, each attribute, and default (if
// present) each resolve independently").
func resolveComponent(rc *resolveContext, c Component) (Component, error) {
	typeRef, err := rc.resolveTypeRef(c.Type)
	if err != nil {
		return Component{}, err
	}
	c.Type = typeRef

	resolvedAttrs := make([]ResolvableItemId[Attribute], len(c.Attributes))
	for i, a := range c.Attributes {
		r, err := rc.resolveAttributeRef(a)
		if err != nil {
			return Component{}, err
		}
		resolvedAttrs[i] = r
	}
	c.Attributes = resolvedAttrs

	if c.Default != nil && !c.Default.IsResolved() {
		resolved, err := rc.resolveValue(*c.Default, typeRef.Handle())
		if err != nil {
			return Component{}, err
		}
		c.Default = &resolved
	}
	return c, nil
}
