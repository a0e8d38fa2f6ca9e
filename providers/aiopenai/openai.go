// Package aiopenai adapts OpenAI chat-completion message types to the
// engine's message model and implements a Summarizer over the chat
// completions API.
package aiopenai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared/constant"

	"github.com/contextkit/contextkit/compact"
	"github.com/contextkit/contextkit/types"
)

// Defaults for summarization.
const (
	DefaultModel     = "gpt-4o-mini"
	DefaultMaxTokens = 4096
)

// CompletionMessage adapts an openai.ChatCompletionMessage (the response
// shape) to the engine's accessor interface so responses can be appended
// to a conversation without manual field copying.
type CompletionMessage struct {
	Message openai.ChatCompletionMessage
}

var _ types.MessageLike = CompletionMessage{}

func (m CompletionMessage) GetRole() string { return string(m.Message.Role) }

func (m CompletionMessage) GetContent() string { return m.Message.Content }

// GetMultiContent returns nil: completion responses carry plain text only.
func (m CompletionMessage) GetMultiContent() []types.ContentPart { return nil }

func (m CompletionMessage) GetToolCalls() []types.ToolCall {
	if len(m.Message.ToolCalls) == 0 {
		return nil
	}
	calls := make([]types.ToolCall, 0, len(m.Message.ToolCalls))
	for _, tc := range m.Message.ToolCalls {
		calls = append(calls, types.ToolCall{
			ID:   tc.ID,
			Type: "function",
			Function: types.FunctionCall{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		})
	}
	return calls
}

// GetToolCallID returns "": completion responses are never tool results.
func (m CompletionMessage) GetToolCallID() string { return "" }

// FromCompletionMessage converts a chat completion response message to the
// engine's message type.
func FromCompletionMessage(m openai.ChatCompletionMessage) types.Message {
	return types.FromLike(CompletionMessage{Message: m})
}

// ToParams converts engine messages to chat completion request parameters.
// Developer messages are sent as system messages; opaque multimodal parts
// other than images are dropped.
func ToParams(messages []types.Message) []openai.ChatCompletionMessageParamUnion {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		params = append(params, toParam(m))
	}
	return params
}

func toParam(m types.Message) openai.ChatCompletionMessageParamUnion {
	switch m.Role {
	case types.RoleSystem, types.RoleDeveloper:
		return openai.SystemMessage(m.TextContent())

	case types.RoleAssistant:
		if m.HasToolCalls() {
			return assistantWithToolCalls(m)
		}
		return openai.AssistantMessage(m.TextContent())

	case types.RoleTool:
		return openai.ToolMessage(m.Content, m.ToolCallID)

	default:
		if m.IsMultimodal() {
			return openai.UserMessage(userParts(m.MultiContent))
		}
		return openai.UserMessage(m.Content)
	}
}

func assistantWithToolCalls(m types.Message) openai.ChatCompletionMessageParamUnion {
	toolCalls := make([]openai.ChatCompletionMessageToolCallUnionParam, 0, len(m.ToolCalls))
	for _, tc := range m.ToolCalls {
		toolCalls = append(toolCalls, openai.ChatCompletionMessageToolCallUnionParam{
			OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
				ID:   tc.ID,
				Type: constant.Function("function"),
				Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			},
		})
	}

	assistant := &openai.ChatCompletionAssistantMessageParam{
		Role:      constant.Assistant("assistant"),
		ToolCalls: toolCalls,
	}
	if content := m.TextContent(); content != "" {
		assistant.Content = openai.ChatCompletionAssistantMessageParamContentUnion{
			OfString: openai.String(content),
		}
	}
	return openai.ChatCompletionMessageParamUnion{OfAssistant: assistant}
}

// userParts converts multimodal content to user message content parts. Text
// and image parts survive; other opaque parts have no request equivalent.
func userParts(parts []types.ContentPart) []openai.ChatCompletionContentPartUnionParam {
	converted := make([]openai.ChatCompletionContentPartUnionParam, 0, len(parts))
	for _, p := range parts {
		if p.IsText() {
			converted = append(converted, openai.TextContentPart(p.Text))
			continue
		}
		if p.Type == "image_url" {
			var img struct {
				ImageURL struct {
					URL    string `json:"url"`
					Detail string `json:"detail"`
				} `json:"image_url"`
			}
			if err := json.Unmarshal(p.Raw, &img); err == nil && img.ImageURL.URL != "" {
				converted = append(converted, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL:    img.ImageURL.URL,
					Detail: img.ImageURL.Detail,
				}))
			}
		}
	}
	return converted
}

// Summarizer generates conversation summaries with the chat completions
// API.
type Summarizer struct {
	client    openai.Client
	model     string
	maxTokens int
}

var _ compact.Summarizer = (*Summarizer)(nil)

// NewSummarizer creates a Summarizer. Empty model and non-positive
// maxTokens fall back to the package defaults.
func NewSummarizer(client openai.Client, model string, maxTokens int) *Summarizer {
	if model == "" {
		model = DefaultModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Summarizer{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
	}
}

// Summarize runs one completion over the prompt and returns the response
// text.
func (s *Summarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(compact.SummarizationSystemPrompt),
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(int64(s.maxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", compact.ErrSummarizationFailed, err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty response from summarizer", compact.ErrSummarizationFailed)
	}
	return completion.Choices[0].Message.Content, nil
}
