package compact

import (
	"context"
	"fmt"

	"github.com/contextkit/contextkit/tokenizer"
	"github.com/contextkit/contextkit/types"
)

// Strategy names a reduction strategy.
type Strategy string

const (
	// StrategyFirst keeps the leading messages that fit the budget.
	StrategyFirst Strategy = "first"

	// StrategyLast keeps the most recent messages that fit the budget.
	StrategyLast Strategy = "last"

	// StrategySelective shrinks or drops the oldest unpinned messages
	// until the conversation fits.
	StrategySelective Strategy = "selective"

	// StrategySummary replaces older messages with a generated summary.
	StrategySummary Strategy = "summary"
)

// StrategyExecutor is the reduction capability implemented by each strategy.
//
// Compress returns an order-preserving, possibly content-shrunk subsequence
// of messages whose accounted cost fits budget whenever structurally
// possible; otherwise it returns a best-effort minimal result. Compress
// never fails: configuration problems are rejected at construction and
// summarization failures are recovered internally by falling back to last
// truncation. Implementations never mutate the input slice or its messages.
type StrategyExecutor interface {
	// Name returns the strategy name.
	Name() Strategy

	// Compress reduces the conversation to fit budget, accounted by counter.
	Compress(ctx context.Context, messages []types.Message, budget int, counter tokenizer.Counter) []types.Message
}

// Summarizer is the external text-generation capability consumed by the
// summary strategy: a single blocking "summarize text -> text" round trip.
// Retry and timeout policy belong to the implementation or the caller's
// context, not to the engine.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// newExecutor resolves a strategy name into an executor using the
// configuration's tuning parameters. Resolution happens once, at Manager
// construction; strategies are never re-dispatched per call.
func newExecutor(cfg Config) (StrategyExecutor, error) {
	switch cfg.Strategy {
	case StrategyFirst:
		return NewFirstTruncationStrategy(cfg.PreserveSystem), nil
	case StrategyLast:
		return NewLastTruncationStrategy(cfg.PreserveSystem, cfg.MinContentTokens), nil
	case StrategySelective:
		return NewSelectiveCompressionStrategy(cfg.PreserveSystem, cfg.ReduceRatio, cfg.MinContentTokens), nil
	case StrategySummary:
		if cfg.Summarizer == nil {
			return nil, fmt.Errorf("%w: summary strategy requires a summarizer", ErrInvalidConfig)
		}
		return NewSummaryCompressionStrategy(cfg.Summarizer, cfg.PreserveSystem, cfg.PreserveRecent, cfg.MinContentTokens), nil
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, cfg.Strategy)
	}
}
