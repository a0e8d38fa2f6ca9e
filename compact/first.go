package compact

import (
	"context"

	"github.com/contextkit/contextkit/tokenizer"
	"github.com/contextkit/contextkit/types"
)

// FirstTruncationStrategy keeps the leading messages that fit the budget.
// The walk stops at the first message that does not fit, after an attempt
// to shrink it into the remaining budget; later messages are never
// considered.
type FirstTruncationStrategy struct {
	preserveSystem bool
}

// NewFirstTruncationStrategy creates a first-truncation strategy.
func NewFirstTruncationStrategy(preserveSystem bool) *FirstTruncationStrategy {
	return &FirstTruncationStrategy{preserveSystem: preserveSystem}
}

// Name returns the strategy name.
func (s *FirstTruncationStrategy) Name() Strategy {
	return StrategyFirst
}

// Compress walks the conversation front-to-back, accumulating messages
// while the running total fits the budget.
func (s *FirstTruncationStrategy) Compress(ctx context.Context, messages []types.Message, budget int, counter tokenizer.Counter) []types.Message {
	if len(messages) == 0 {
		return []types.Message{}
	}

	splitter := NewContentSplitter(counter)
	result := make([]types.Message, 0, len(messages))
	remaining := budget
	start := 0

	if s.preserveSystem && messages[0].IsSystem() {
		sys, cost, overflow := reserveSystem(messages[0], budget, counter, splitter)
		if overflow {
			return []types.Message{sys}
		}
		result = append(result, sys)
		remaining -= cost
		start = 1
	}

	for i := start; i < len(messages); i++ {
		msg := messages[i]
		cost := tokenizer.MessageTokens(counter, msg)
		if cost <= remaining {
			result = append(result, msg)
			remaining -= cost
			continue
		}

		// Boundary message: shrink it into the remaining budget if its
		// content allows, then stop. The bias is front-first.
		if remaining > 0 && shrinkable(msg) {
			shrunk := splitter.Fit(msg, remaining)
			if hasContent(shrunk) && tokenizer.MessageTokens(counter, shrunk) <= remaining {
				result = append(result, shrunk)
			}
		}
		break
	}

	return result
}

// reserveSystem handles the pinned leading system message. When its own
// cost exceeds the full budget, it is shrunk to fit the entire budget and
// the caller returns it alone (overflow true). Otherwise it is returned
// unchanged with its cost.
func reserveSystem(sys types.Message, budget int, counter tokenizer.Counter, splitter *ContentSplitter) (types.Message, int, bool) {
	cost := tokenizer.MessageTokens(counter, sys)
	if cost > budget {
		return splitter.Fit(sys, budget), budget, true
	}
	return sys, cost, false
}
