package tokenizer

import (
	"strings"
	"testing"

	"github.com/contextkit/contextkit/types"
)

func TestHeuristicCounter_Count(t *testing.T) {
	tests := []struct {
		name          string
		charsPerToken int
		text          string
		want          int
	}{
		{"empty", 0, "", 0},
		{"single char", 0, "a", 1},
		{"exactly one token", 0, "abcd", 1},
		{"just over one token", 0, "abcde", 2},
		{"two tokens", 0, "abcdefgh", 2},
		{"custom ratio", 2, "abcd", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := HeuristicCounter{CharsPerToken: tt.charsPerToken}
			if got := c.Count(tt.text); got != tt.want {
				t.Errorf("Count(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestMessageTokens(t *testing.T) {
	counter := HeuristicCounter{}

	tests := []struct {
		name string
		msg  types.Message
		want int
	}{
		{
			// 3 overhead + 1 role + 4 content
			name: "user message",
			msg:  types.NewUserMessage("Hello, world!"),
			want: 8,
		},
		{
			// 3 overhead + 2 role, empty content adds nothing
			name: "empty system message",
			msg:  types.Message{Role: types.RoleSystem},
			want: 5,
		},
		{
			// 3 overhead + 3 role + (3 per-call + 2 id + 2 name + 3 args)
			name: "assistant with tool call",
			msg: types.Message{
				Role: types.RoleAssistant,
				ToolCalls: []types.ToolCall{
					{ID: "call_1", Type: "function", Function: types.FunctionCall{
						Name:      "search",
						Arguments: `{"q":"x"}`,
					}},
				},
			},
			want: 16,
		},
		{
			// 3 overhead + 1 role + 10 content + 2 tool_call_id
			name: "tool result",
			msg:  types.NewToolMessage("call_1", strings.Repeat("r", 40)),
			want: 16,
		},
		{
			// 3 overhead + 1 role + 10 + 10 part texts
			name: "multimodal text parts",
			msg: types.NewMultimodalMessage(types.RoleUser,
				types.TextPart(strings.Repeat("a", 40)),
				types.TextPart(strings.Repeat("b", 40)),
			),
			want: 24,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MessageTokens(counter, tt.msg); got != tt.want {
				t.Errorf("MessageTokens() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPartTokens_opaquePart(t *testing.T) {
	counter := HeuristicCounter{}
	raw := []byte(`{"type":"image_url","image_url":{"url":"https://example.com/x.png"}}`)
	p := types.OpaquePart("image_url", raw)

	want := counter.Count(string(raw))
	if got := PartTokens(counter, p); got != want {
		t.Errorf("PartTokens() = %d, want %d", got, want)
	}
}

func TestConversationTokens(t *testing.T) {
	counter := HeuristicCounter{}

	if got := ConversationTokens(counter, nil); got != 0 {
		t.Errorf("ConversationTokens(nil) = %d, want 0", got)
	}

	messages := []types.Message{
		types.NewSystemMessage("You are a helpful assistant."),
		types.NewUserMessage("Hello, world!"),
	}
	want := MessageTokens(counter, messages[0]) + MessageTokens(counter, messages[1])
	if got := ConversationTokens(counter, messages); got != want {
		t.Errorf("ConversationTokens() = %d, want %d", got, want)
	}
}

func TestHeuristicCounter_CountMessages(t *testing.T) {
	counter := HeuristicCounter{}
	messages := []types.Message{
		types.NewUserMessage(strings.Repeat("a", 40)),
		types.NewAssistantMessage(strings.Repeat("b", 40)),
	}
	// (3+1+10) + (3+3+10)
	if got := counter.CountMessages(messages); got != 30 {
		t.Errorf("CountMessages() = %d, want 30", got)
	}
}
