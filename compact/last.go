package compact

import (
	"context"

	"github.com/contextkit/contextkit/tokenizer"
	"github.com/contextkit/contextkit/types"
)

// LastTruncationStrategy keeps the most recent messages that fit the
// budget. The walk runs back-to-front and stops at the first message that
// does not fit; the result is returned in chronological order, with the
// pinned system message first when one is reserved.
type LastTruncationStrategy struct {
	preserveSystem   bool
	minContentTokens int
}

// NewLastTruncationStrategy creates a last-truncation strategy.
// minContentTokens is the smallest remaining budget worth shrinking a
// boundary message into; below it, the boundary message is dropped.
func NewLastTruncationStrategy(preserveSystem bool, minContentTokens int) *LastTruncationStrategy {
	return &LastTruncationStrategy{
		preserveSystem:   preserveSystem,
		minContentTokens: minContentTokens,
	}
}

// Name returns the strategy name.
func (s *LastTruncationStrategy) Name() Strategy {
	return StrategyLast
}

// Compress fills the budget with the most recent messages, reserving a
// leading system message first.
func (s *LastTruncationStrategy) Compress(ctx context.Context, messages []types.Message, budget int, counter tokenizer.Counter) []types.Message {
	if len(messages) == 0 {
		return []types.Message{}
	}

	splitter := NewContentSplitter(counter)
	remaining := budget
	start := 0
	var system *types.Message

	if s.preserveSystem && messages[0].IsSystem() {
		sys, cost, overflow := reserveSystem(messages[0], budget, counter, splitter)
		if overflow {
			return []types.Message{sys}
		}
		system = &sys
		remaining -= cost
		start = 1
	}

	// Collect the tail newest-first, then reverse back to chronological
	// order for the result.
	var tail []types.Message
	for i := len(messages) - 1; i >= start; i-- {
		msg := messages[i]
		cost := tokenizer.MessageTokens(counter, msg)
		if cost <= remaining {
			tail = append(tail, msg)
			remaining -= cost
			continue
		}

		// Boundary message. Shrinking into a sliver of budget produces a
		// near-empty fragment of no value, so only shrink when at least
		// minContentTokens remain.
		if remaining >= s.minContentTokens && remaining > 0 && shrinkable(msg) {
			shrunk := splitter.Fit(msg, remaining)
			if hasContent(shrunk) && tokenizer.MessageTokens(counter, shrunk) <= remaining {
				tail = append(tail, shrunk)
			}
		}
		break
	}

	result := make([]types.Message, 0, len(tail)+1)
	if system != nil {
		result = append(result, *system)
	}
	for i := len(tail) - 1; i >= 0; i-- {
		result = append(result, tail[i])
	}
	return result
}
