package types

// MessageLike is the narrow field-accessor capability that lets the engine
// consume message representations other than its own Message struct.
// Any shape exposing equivalent field access (an SDK message type behind a
// small adapter, for example) yields identical token accounting, because
// the engine only ever sees the normalized Message produced by FromLike.
type MessageLike interface {
	GetRole() string
	GetContent() string
	GetMultiContent() []ContentPart
	GetToolCalls() []ToolCall
	GetToolCallID() string
}

// GetRole implements MessageLike.
func (m Message) GetRole() string { return m.Role }

// GetContent implements MessageLike.
func (m Message) GetContent() string { return m.Content }

// GetMultiContent implements MessageLike.
func (m Message) GetMultiContent() []ContentPart { return m.MultiContent }

// GetToolCalls implements MessageLike.
func (m Message) GetToolCalls() []ToolCall { return m.ToolCalls }

// GetToolCallID implements MessageLike.
func (m Message) GetToolCallID() string { return m.ToolCallID }

// FromLike normalizes any MessageLike into a Message. Slices are copied so
// the result is independent of the source.
func FromLike(src MessageLike) Message {
	m := Message{
		Role:       src.GetRole(),
		Content:    src.GetContent(),
		ToolCallID: src.GetToolCallID(),
	}
	if parts := src.GetMultiContent(); len(parts) > 0 {
		m.MultiContent = append([]ContentPart(nil), parts...)
	}
	if calls := src.GetToolCalls(); len(calls) > 0 {
		m.ToolCalls = append([]ToolCall(nil), calls...)
	}
	return m
}

// FromLikes normalizes a conversation of MessageLike values.
func FromLikes[T MessageLike](src []T) []Message {
	out := make([]Message, len(src))
	for i, m := range src {
		out[i] = FromLike(m)
	}
	return out
}
