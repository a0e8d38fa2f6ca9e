package compact

import (
	"context"

	"github.com/contextkit/contextkit/tokenizer"
	"github.com/contextkit/contextkit/types"
)

// SelectiveCompressionStrategy shrinks or drops the oldest unpinned
// messages until the conversation fits the budget. Pinned messages are
// never touched: the leading system message and both halves of adjacent
// tool-call/tool-result pairs. If reducing every candidate is not enough,
// the partially-reduced result is handed to last truncation as a last
// resort.
type SelectiveCompressionStrategy struct {
	preserveSystem bool
	reduceRatio    float64
	fallback       StrategyExecutor
}

// NewSelectiveCompressionStrategy creates a selective-compression strategy.
// reduceRatio is the target fractional reduction (0 < r < 1) applied to
// each shrinkable candidate; minContentTokens configures the
// last-truncation fallback.
func NewSelectiveCompressionStrategy(preserveSystem bool, reduceRatio float64, minContentTokens int) *SelectiveCompressionStrategy {
	return &SelectiveCompressionStrategy{
		preserveSystem: preserveSystem,
		reduceRatio:    reduceRatio,
		fallback:       NewLastTruncationStrategy(preserveSystem, minContentTokens),
	}
}

// Name returns the strategy name.
func (s *SelectiveCompressionStrategy) Name() Strategy {
	return StrategySelective
}

// Compress reduces candidates oldest-first until the conversation fits.
func (s *SelectiveCompressionStrategy) Compress(ctx context.Context, messages []types.Message, budget int, counter tokenizer.Counter) []types.Message {
	if len(messages) == 0 {
		return []types.Message{}
	}

	total := counter.CountMessages(messages)
	if total <= budget {
		return messages
	}

	splitter := NewContentSplitter(counter)
	pinned := pinnedSet(messages, s.preserveSystem)

	work := append([]types.Message(nil), messages...)
	removed := make([]bool, len(work))

	for i := 0; i < len(work) && total > budget; i++ {
		if pinned[i] {
			continue
		}

		cost := tokenizer.MessageTokens(counter, work[i])
		if shrinkable(work[i]) {
			target := int(float64(cost) * (1 - s.reduceRatio))
			shrunk := splitter.Fit(work[i], target)
			if hasContent(shrunk) {
				work[i] = shrunk
				total += tokenizer.MessageTokens(counter, shrunk) - cost
				continue
			}
		}

		// Atomic candidate, or shrinking left nothing worth keeping.
		removed[i] = true
		total -= cost
	}

	result := make([]types.Message, 0, len(work))
	for i, m := range work {
		if !removed[i] {
			result = append(result, m)
		}
	}

	if total > budget {
		return s.fallback.Compress(ctx, result, budget, counter)
	}
	return result
}

// pinnedSet marks messages excluded from selective reduction: the leading
// system message when preserveSystem is set, and both halves of adjacent
// tool-call/tool-result pairs (including runs of consecutive tool results
// answering one assistant message).
func pinnedSet(messages []types.Message, preserveSystem bool) []bool {
	pinned := make([]bool, len(messages))
	if preserveSystem && len(messages) > 0 && messages[0].IsSystem() {
		pinned[0] = true
	}
	for i := range messages {
		if !messages[i].HasToolCalls() {
			continue
		}
		if i+1 < len(messages) && messages[i+1].Role == types.RoleTool {
			pinned[i] = true
			for j := i + 1; j < len(messages) && messages[j].Role == types.RoleTool; j++ {
				pinned[j] = true
			}
		}
	}
	return pinned
}
