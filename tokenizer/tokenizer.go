// Package tokenizer provides token accounting for conversation messages.
//
// The Counter interface is the capability the reduction strategies depend
// on: Count measures a single text, CountMessages reproduces the wire-format
// accounting for a whole conversation (fixed per-message overhead plus
// per-field cost for role, content, tool-call name/arguments and tool-call
// id). TiktokenCounter is the BPE-backed implementation; HeuristicCounter is
// a dependency-free character approximation; CachedCounter memoizes any of
// them.
package tokenizer

import (
	"encoding/json"

	"github.com/contextkit/contextkit/types"
)

// Wire-format accounting overheads, matching the chat completion message
// framing of the target models.
const (
	// TokensPerMessage is the fixed overhead added for each message.
	TokensPerMessage = 3

	// TokensPerToolCall is the fixed overhead added for each tool call.
	TokensPerToolCall = 3
)

// TextCounter counts tokens in a single text. Count returns a non-negative
// integer and never fails for well-formed input; empty text counts as 0.
type TextCounter interface {
	Count(text string) int
}

// Counter is the full token accounting capability consumed by the
// reduction strategies.
type Counter interface {
	TextCounter

	// CountMessages returns the wire-format token count of a conversation.
	// An empty conversation counts as 0.
	CountMessages(messages []types.Message) int
}

// MessageTokens returns the accounted cost of a single message, routing all
// text fields through count. The cost is additive: a conversation's count
// is the sum of its messages' costs.
func MessageTokens(count TextCounter, m types.Message) int {
	total := TokensPerMessage
	total += count.Count(m.Role)

	if m.IsMultimodal() {
		for _, p := range m.MultiContent {
			total += PartTokens(count, p)
		}
	} else if m.Content != "" {
		total += count.Count(m.Content)
	}

	for _, tc := range m.ToolCalls {
		total += TokensPerToolCall
		total += count.Count(tc.ID)
		total += count.Count(tc.Function.Name)
		total += count.Count(tc.Function.Arguments)
	}

	if m.ToolCallID != "" {
		total += count.Count(m.ToolCallID)
	}

	return total
}

// PartTokens returns the accounted cost of one content part. Non-text parts
// are counted from a best-effort serialization of their payload.
func PartTokens(count TextCounter, p types.ContentPart) int {
	if p.IsText() {
		return count.Count(p.Text)
	}
	if len(p.Raw) > 0 {
		return count.Count(string(p.Raw))
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return count.Count(p.Type)
	}
	return count.Count(string(payload))
}

// ConversationTokens sums MessageTokens over a conversation.
func ConversationTokens(count TextCounter, messages []types.Message) int {
	total := 0
	for _, m := range messages {
		total += MessageTokens(count, m)
	}
	return total
}

// DefaultCharsPerToken is the approximation ratio used by HeuristicCounter:
// roughly 4 characters per token for English text.
const DefaultCharsPerToken = 4

// HeuristicCounter estimates tokens from character count. The estimate is
// rough: fine for budget enforcement with a safety margin, not for exact
// billing. It needs no tokenizer table.
type HeuristicCounter struct {
	// CharsPerToken overrides the estimation ratio. Zero means
	// DefaultCharsPerToken.
	CharsPerToken int
}

// Count estimates the token count of text. Non-empty text counts as at
// least one token.
func (c HeuristicCounter) Count(text string) int {
	if len(text) == 0 {
		return 0
	}
	ratio := c.CharsPerToken
	if ratio <= 0 {
		ratio = DefaultCharsPerToken
	}
	tokens := (len(text) + ratio - 1) / ratio
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}

// CountMessages returns the wire-format token count of a conversation.
func (c HeuristicCounter) CountMessages(messages []types.Message) int {
	return ConversationTokens(c, messages)
}
