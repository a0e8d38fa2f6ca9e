// Package types defines the conversation message model shared by the
// tokenizer and the reduction strategies.
//
// Messages follow the OpenAI chat wire shape: a role, content that is either
// a plain string or an ordered list of typed parts, optional tool calls on
// assistant messages, and an optional tool_call_id on tool-result messages.
// The model round-trips through encoding/json in that wire form, so
// conversations can be loaded from and emitted to standard chat-completion
// payloads.
package types

import (
	"encoding/json"
	"fmt"
)

// Role constants for conversation messages.
const (
	RoleSystem    = "system"
	RoleDeveloper = "developer"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ContentPartTypeText is the only shrinkable content part type. All other
// part types are opaque and preserved verbatim if the part survives.
const ContentPartTypeText = "text"

// ContentPart is one part of a multimodal message. Text parts carry their
// text directly; every other type keeps its original JSON payload in Raw so
// it survives round-tripping untouched.
type ContentPart struct {
	Type string
	Text string

	// Raw is the original JSON object for non-text parts.
	Raw json.RawMessage
}

// TextPart creates a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: ContentPartTypeText, Text: text}
}

// OpaquePart creates a non-text part from its raw JSON payload.
// The payload must be a JSON object with a "type" field.
func OpaquePart(partType string, raw json.RawMessage) ContentPart {
	return ContentPart{Type: partType, Raw: raw}
}

// IsText reports whether the part is a shrinkable text part.
func (p ContentPart) IsText() bool {
	return p.Type == ContentPartTypeText
}

// MarshalJSON emits text parts as {"type":"text","text":...} and non-text
// parts as their original payload.
func (p ContentPart) MarshalJSON() ([]byte, error) {
	if p.IsText() {
		return json.Marshal(struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{Type: ContentPartTypeText, Text: p.Text})
	}
	if len(p.Raw) > 0 {
		return p.Raw, nil
	}
	return json.Marshal(struct {
		Type string `json:"type"`
	}{Type: p.Type})
}

// UnmarshalJSON parses a content part, keeping the raw payload for
// non-text types.
func (p *ContentPart) UnmarshalJSON(data []byte) error {
	var probe struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("invalid content part: %w", err)
	}
	p.Type = probe.Type
	if probe.Type == ContentPartTypeText {
		p.Text = probe.Text
		p.Raw = nil
		return nil
	}
	p.Text = ""
	p.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// FunctionCall is the function name and serialized arguments of a tool call.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolCall represents one tool invocation emitted by an assistant message.
// A message's tool-call list is atomic: it is kept whole or the whole
// message is dropped, never partially included.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// Message represents one conversational turn.
//
// Content is either the plain string in Content or the ordered parts in
// MultiContent; MultiContent takes precedence when non-empty. Both may be
// empty only when ToolCalls is present.
type Message struct {
	Role         string
	Content      string
	MultiContent []ContentPart
	ToolCalls    []ToolCall
	ToolCallID   string
}

// NewSystemMessage creates a system message with string content.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user message with string content.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant message with string content.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// NewToolMessage creates a tool-result message referencing a tool call.
func NewToolMessage(toolCallID, content string) Message {
	return Message{Role: RoleTool, ToolCallID: toolCallID, Content: content}
}

// NewMultimodalMessage creates a message with multipart content.
func NewMultimodalMessage(role string, parts ...ContentPart) Message {
	return Message{Role: role, MultiContent: parts}
}

// IsMultimodal reports whether the message carries multipart content.
func (m Message) IsMultimodal() bool {
	return len(m.MultiContent) > 0
}

// HasToolCalls reports whether the message invokes tools.
func (m Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}

// IsSystem reports whether the message carries system instructions.
// The developer role is treated as equivalent to system.
func (m Message) IsSystem() bool {
	return m.Role == RoleSystem || m.Role == RoleDeveloper
}

// TextContent returns the message's text: the string content, or the
// concatenated text parts of multipart content.
func (m Message) TextContent() string {
	if !m.IsMultimodal() {
		return m.Content
	}
	var text string
	for _, p := range m.MultiContent {
		if p.IsText() {
			if text != "" {
				text += "\n"
			}
			text += p.Text
		}
	}
	return text
}

// Clone returns a deep copy of the message. Strategies shrink copies and
// never mutate caller-owned messages in place.
func (m Message) Clone() Message {
	out := m
	if m.MultiContent != nil {
		out.MultiContent = make([]ContentPart, len(m.MultiContent))
		for i, p := range m.MultiContent {
			out.MultiContent[i] = p
			if p.Raw != nil {
				out.MultiContent[i].Raw = append(json.RawMessage(nil), p.Raw...)
			}
		}
	}
	if m.ToolCalls != nil {
		out.ToolCalls = append([]ToolCall(nil), m.ToolCalls...)
	}
	return out
}

// CloneAll deep-copies a conversation.
func CloneAll(messages []Message) []Message {
	out := make([]Message, len(messages))
	for i, m := range messages {
		out[i] = m.Clone()
	}
	return out
}

// messageJSON is the wire representation of a message.
type messageJSON struct {
	Role       string          `json:"role"`
	Content    json.RawMessage `json:"content,omitempty"`
	ToolCalls  []ToolCall      `json:"tool_calls,omitempty"`
	ToolCallID string          `json:"tool_call_id,omitempty"`
}

// MarshalJSON emits the message in OpenAI chat wire form: content is a
// string, an array of parts, or omitted entirely.
func (m Message) MarshalJSON() ([]byte, error) {
	wire := messageJSON{
		Role:       m.Role,
		ToolCalls:  m.ToolCalls,
		ToolCallID: m.ToolCallID,
	}
	switch {
	case m.IsMultimodal():
		parts, err := json.Marshal(m.MultiContent)
		if err != nil {
			return nil, err
		}
		wire.Content = parts
	case m.Content != "":
		text, err := json.Marshal(m.Content)
		if err != nil {
			return nil, err
		}
		wire.Content = text
	}
	return json.Marshal(wire)
}

// UnmarshalJSON parses a message whose content may be a string, an array of
// parts, or absent.
func (m *Message) UnmarshalJSON(data []byte) error {
	var wire messageJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	m.Role = wire.Role
	m.ToolCalls = wire.ToolCalls
	m.ToolCallID = wire.ToolCallID
	m.Content = ""
	m.MultiContent = nil

	if len(wire.Content) == 0 || string(wire.Content) == "null" {
		return nil
	}
	if wire.Content[0] == '[' {
		return json.Unmarshal(wire.Content, &m.MultiContent)
	}
	return json.Unmarshal(wire.Content, &m.Content)
}
