package compact

import (
	"context"
	"strings"

	"github.com/contextkit/contextkit/tokenizer"
	"github.com/contextkit/contextkit/types"
)

// SummaryCompressionStrategy replaces older messages with a single
// generated summary, keeping the pinned system message and the most recent
// messages verbatim. The summarization round trip is the only blocking
// call in the engine; when it fails, the strategy falls back to last
// truncation on the original conversation rather than surfacing the error.
type SummaryCompressionStrategy struct {
	summarizer     Summarizer
	preserveSystem bool
	preserveRecent int
	fallback       StrategyExecutor
}

// NewSummaryCompressionStrategy creates a summary-compression strategy.
// preserveRecent is the number of most recent messages kept verbatim;
// minContentTokens configures the last-truncation fallback.
func NewSummaryCompressionStrategy(summarizer Summarizer, preserveSystem bool, preserveRecent int, minContentTokens int) *SummaryCompressionStrategy {
	return &SummaryCompressionStrategy{
		summarizer:     summarizer,
		preserveSystem: preserveSystem,
		preserveRecent: preserveRecent,
		fallback:       NewLastTruncationStrategy(preserveSystem, minContentTokens),
	}
}

// Name returns the strategy name.
func (s *SummaryCompressionStrategy) Name() Strategy {
	return StrategySummary
}

// Compress summarizes the head of the conversation into one synthetic
// message and keeps the tail verbatim.
func (s *SummaryCompressionStrategy) Compress(ctx context.Context, messages []types.Message, budget int, counter tokenizer.Counter) []types.Message {
	if len(messages) == 0 {
		return []types.Message{}
	}
	if counter.CountMessages(messages) <= budget {
		return messages
	}

	start := 0
	var system *types.Message
	if s.preserveSystem && messages[0].IsSystem() {
		system = &messages[0]
		start = 1
	}

	rest := messages[start:]
	if len(rest) <= s.preserveRecent {
		// Nothing to summarize; last truncation handles the whole input.
		return s.fallback.Compress(ctx, messages, budget, counter)
	}

	head := rest[:len(rest)-s.preserveRecent]
	tail := rest[len(rest)-s.preserveRecent:]

	summaryText, err := s.summarizer.Summarize(ctx, BuildSummaryPrompt(RenderTranscript(head)))
	if err != nil || strings.TrimSpace(summaryText) == "" {
		return s.fallback.Compress(ctx, messages, budget, counter)
	}

	assembled := make([]types.Message, 0, len(tail)+2)
	if system != nil {
		assembled = append(assembled, *system)
	}
	assembled = append(assembled, NewSummaryMessage(summaryText))
	assembled = append(assembled, tail...)

	// Finishing pass: the summary itself or the tail may still be too
	// large for the budget.
	if counter.CountMessages(assembled) > budget {
		return s.fallback.Compress(ctx, assembled, budget, counter)
	}
	return assembled
}

// NewSummaryMessage wraps generated summary text in the synthetic user
// message the summary strategy inserts, prefixed with SummaryMarker.
func NewSummaryMessage(summaryText string) types.Message {
	return types.Message{
		Role:    types.RoleUser,
		Content: SummaryMarker + "\n\n" + summaryText,
	}
}

// IsSummaryMessage reports whether a message is a synthetic summary
// inserted by the summary strategy.
func IsSummaryMessage(m types.Message) bool {
	return m.Role == types.RoleUser && strings.HasPrefix(m.Content, SummaryMarker)
}
