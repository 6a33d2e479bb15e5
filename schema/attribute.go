package schema

// Attribute is a nominal marker: its presence on a component's attribute
// list carries meaning to the embedding runtime (replication, persistence,
// editor visibility), but the item itself carries no data beyond ItemData
// (§3 Attribute).
type Attribute struct {
	data ItemData
}

func (a Attribute) Data() ItemData { return a.data }
func (a Attribute) Kind() ItemType { return ItemTypeAttribute }

func newAttribute(data ItemData) Attribute {
	return Attribute{data: data}
}

// StandardAttributeNames lists the six attributes the root bootstrap (C7)
// installs before any manifest loads (§4.7, §9).
func StandardAttributeNames() []string {
	return []string{"Debuggable", "Networked", "Resource", "MaybeResource", "Store", "Enum"}
}
