// Package aianthropic implements the engine's injected capabilities on the
// Anthropic API: a Summarizer over the Messages streaming API and a token
// counter over the token-counting API with a heuristic fallback.
package aianthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/contextkit/contextkit/compact"
	"github.com/contextkit/contextkit/tokenizer"
	"github.com/contextkit/contextkit/types"
)

// Defaults for summarization. A fast, cheap model is the right choice for
// condensing history.
const (
	DefaultModel     = "claude-3-5-haiku-latest"
	DefaultMaxTokens = 4096
)

// Summarizer generates conversation summaries with Claude.
type Summarizer struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

var _ compact.Summarizer = (*Summarizer)(nil)

// NewSummarizer creates a Summarizer. Empty model and non-positive
// maxTokens fall back to the package defaults.
func NewSummarizer(client *anthropic.Client, model string, maxTokens int) *Summarizer {
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

// Summarize runs one streaming completion over the prompt and returns the
// accumulated text.
func (s *Summarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	stream := s.client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: int64(s.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: compact.SummarizationSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})

	message := anthropic.Message{}
	for stream.Next() {
		if err := message.Accumulate(stream.Current()); err != nil {
			return "", fmt.Errorf("%w: failed to accumulate stream: %v", compact.ErrSummarizationFailed, err)
		}
	}
	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", compact.ErrSummarizationFailed, err)
	}

	var summary strings.Builder
	for _, block := range message.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			summary.WriteString(text.Text)
		}
	}
	if summary.Len() == 0 {
		return "", fmt.Errorf("%w: empty response from summarizer", compact.ErrSummarizationFailed)
	}

	return summary.String(), nil
}

// TokenCounter counts tokens with the Anthropic token-counting API, falling
// back to character-based approximation once the API fails. Every Count is
// a network round trip, so wrap it in a tokenizer.CachedCounter when used
// with the reduction strategies.
type TokenCounter struct {
	client    *anthropic.Client
	model     string
	fallback  bool
	heuristic tokenizer.HeuristicCounter
}

var _ tokenizer.Counter = (*TokenCounter)(nil)

// NewTokenCounter creates a TokenCounter for the given model. A nil client
// counts with the heuristic only.
func NewTokenCounter(client *anthropic.Client, model string) *TokenCounter {
	if model == "" {
		model = DefaultModel
	}
	return &TokenCounter{client: client, model: model}
}

// Count returns the token count of text. API failures switch the counter
// to the heuristic for its remaining lifetime; Count itself never fails.
func (c *TokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	if c.client != nil && !c.fallback {
		result, err := c.client.Messages.CountTokens(context.Background(), anthropic.MessageCountTokensParams{
			Model: anthropic.Model(c.model),
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
			},
		})
		if err == nil {
			return int(result.InputTokens)
		}
		c.fallback = true
	}
	return c.heuristic.Count(text)
}

// CountMessages returns the wire-format token count of a conversation.
func (c *TokenCounter) CountMessages(messages []types.Message) int {
	return tokenizer.ConversationTokens(c, messages)
}
