package compact

import (
	"fmt"

	"github.com/contextkit/contextkit/tokenizer"
)

// Default configuration values.
const (
	DefaultStrategy = StrategyLast

	// DefaultMinContentTokens is the smallest remaining budget worth
	// shrinking a boundary message into during last truncation. Below it,
	// the message is dropped instead of leaving a near-empty fragment.
	DefaultMinContentTokens = 50

	// DefaultReduceRatio is the fractional reduction selective compression
	// targets on each shrinkable candidate.
	DefaultReduceRatio = 0.5

	// DefaultPreserveRecent is the number of most recent messages the
	// summary strategy keeps verbatim.
	DefaultPreserveRecent = 4
)

// Config holds reduction configuration. Fix it once per Manager; the
// strategy is resolved at construction time.
type Config struct {
	// MaxTokens is the hard token budget for returned conversations.
	// Required, must be positive.
	MaxTokens int

	// Strategy selects the reduction strategy by name.
	// Default: StrategyLast.
	Strategy Strategy

	// Executor, when non-nil, is used directly instead of resolving
	// Strategy by name.
	Executor StrategyExecutor

	// PreserveSystem pins a leading system (or developer) message: it is
	// never dropped, only content-shrunk as a last resort.
	// DefaultConfig enables it.
	PreserveSystem bool

	// PreserveRecent is the number of most recent messages the summary
	// strategy keeps verbatim. Default: DefaultPreserveRecent.
	PreserveRecent int

	// ReduceRatio is the target fractional reduction (0 < r < 1) selective
	// compression applies to shrinkable candidates.
	// Default: DefaultReduceRatio.
	ReduceRatio float64

	// MinContentTokens is the minimum remaining budget required before
	// last truncation shrinks a boundary message instead of dropping it.
	// Default: DefaultMinContentTokens.
	MinContentTokens int

	// Counter is the token accounting implementation. When nil, a
	// tokenizer.TiktokenCounter wrapped in a tokenizer.CachedCounter is
	// used.
	Counter tokenizer.Counter

	// Summarizer is the external summarization capability. Required when
	// Strategy is StrategySummary.
	Summarizer Summarizer
}

// DefaultConfig returns a Config with defaults applied and system
// preservation enabled. MaxTokens must still be set by the caller.
func DefaultConfig() Config {
	return Config{
		Strategy:         DefaultStrategy,
		PreserveSystem:   true,
		PreserveRecent:   DefaultPreserveRecent,
		ReduceRatio:      DefaultReduceRatio,
		MinContentTokens: DefaultMinContentTokens,
	}
}

// ApplyDefaults fills in zero values with defaults. PreserveSystem is left
// as-is: its zero value means disabled.
func (c *Config) ApplyDefaults() {
	if c.Strategy == "" && c.Executor == nil {
		c.Strategy = DefaultStrategy
	}
	if c.PreserveRecent == 0 {
		c.PreserveRecent = DefaultPreserveRecent
	}
	if c.ReduceRatio == 0 {
		c.ReduceRatio = DefaultReduceRatio
	}
	if c.MinContentTokens == 0 {
		c.MinContentTokens = DefaultMinContentTokens
	}
}

// Validate validates the configuration and returns an error wrapping
// ErrInvalidConfig if it is unusable.
func (c *Config) Validate() error {
	if c.MaxTokens <= 0 {
		return fmt.Errorf("%w: max_tokens must be positive, got %d", ErrInvalidConfig, c.MaxTokens)
	}

	if c.Executor == nil {
		switch c.Strategy {
		case StrategyFirst, StrategyLast, StrategySelective:
		case StrategySummary:
			if c.Summarizer == nil {
				return fmt.Errorf("%w: summary strategy requires a summarizer", ErrInvalidConfig)
			}
		default:
			return fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, c.Strategy)
		}
	}

	if c.ReduceRatio <= 0 || c.ReduceRatio >= 1 {
		return fmt.Errorf("%w: reduce_ratio must be between 0 and 1 exclusive, got %f", ErrInvalidConfig, c.ReduceRatio)
	}

	if c.MinContentTokens < 0 {
		return fmt.Errorf("%w: min_content_tokens must be non-negative, got %d", ErrInvalidConfig, c.MinContentTokens)
	}

	if c.PreserveRecent < 0 {
		return fmt.Errorf("%w: preserve_recent must be non-negative, got %d", ErrInvalidConfig, c.PreserveRecent)
	}

	return nil
}
