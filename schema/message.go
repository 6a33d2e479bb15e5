package schema

// MessageField is one (name, type) pair of a message's field list, kept in
// declaration order (§3 Message: "fields: ordered mapping").
type MessageField struct {
	Name PascalCaseIdentifier
	Type ResolvableItemId[Type]
}

// Message declares a typed, ordered payload exchanged between client and
// server (or peer to peer) in the embedding runtime (§3 Message).
type Message struct {
	data ItemData

	Description string
	Fields      []MessageField
}

func (m Message) Data() ItemData { return m.data }
func (m Message) Kind() ItemType { return ItemTypeMessage }

func newMessage(data ItemData, description string, fields []MessageField) Message {
	return Message{data: data, Description: description, Fields: append([]MessageField(nil), fields...)}
}

// resolveMessage resolves every field's type reference (§4.4 "Message.
// every field's type resolves independently; field order is preserved").
func resolveMessage(rc *resolveContext, msg Message) (Message, error) {
	resolved := make([]MessageField, len(msg.Fields))
	for i, f := range msg.Fields {
		r, err := rc.resolveTypeRef(f.Type)
		if err != nil {
			return Message{}, err
		}
		resolved[i] = MessageField{Name: f.Name, Type: r}
	}
	msg.Fields = resolved
	return msg, nil
}
