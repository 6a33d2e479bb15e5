package schema

// StandardDefinitions is the record of the six standard attribute handles
// the root bootstrap installs, returned for downstream use (§4.7).
type StandardDefinitions struct {
	Debuggable    ItemId[Attribute]
	Networked     ItemId[Attribute]
	Resource      ItemId[Attribute]
	MaybeResource ItemId[Attribute]
	Store         ItemId[Attribute]
	Enum          ItemId[Attribute]
}

// Bootstrap constructs the root scope (§4.7): an empty-id, System-source
// scope, populated with a Type::Primitive child for every primitive in the
// closed scalar set and the six standard attributes, before any manifest
// is loaded. It returns the root handle and the standard attribute record.
func Bootstrap(items *ItemMap) (ItemId[Scope], StandardDefinitions) {
	rootData := ItemData{Source: ItemSourceSystem, ID: IdentifierFromSnake(SnakeCaseIdentifier{})}
	root := Add(items, newScope(rootData, "", "", nil))

	rootMut, release, err := GetMut(items, root)
	if err != nil {
		panic(err) // the arena was just created; this cannot fail
	}

	for _, kind := range AllScalarKinds() {
		pascal := MustPascalCaseIdentifier(kind.PascalName())
		data := ItemData{ParentID: root, HasParentID: true, ID: IdentifierFromPascal(pascal), Source: ItemSourceSystem}
		typeID := Add(items, newPrimitiveType(data, kind))
		rootMut.addType(kind.PascalName(), typeID)
	}

	var defs StandardDefinitions
	for _, name := range StandardAttributeNames() {
		pascal := MustPascalCaseIdentifier(name)
		data := ItemData{ParentID: root, HasParentID: true, ID: IdentifierFromPascal(pascal), Source: ItemSourceSystem}
		attrID := Add(items, newAttribute(data))
		rootMut.addAttribute(name, attrID)
		switch name {
		case "Debuggable":
			defs.Debuggable = attrID
		case "Networked":
			defs.Networked = attrID
		case "Resource":
			defs.Resource = attrID
		case "MaybeResource":
			defs.MaybeResource = attrID
		case "Store":
			defs.Store = attrID
		case "Enum":
			defs.Enum = attrID
		}
	}

	release()
	return root, defs
}
