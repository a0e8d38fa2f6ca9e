package compact

import (
	"context"

	"github.com/google/uuid"

	"github.com/contextkit/contextkit/tokenizer"
	"github.com/contextkit/contextkit/types"
)

// Manager fixes reduction configuration once and offers a stable call
// surface. It resolves the strategy and token counter at construction and
// performs no reduction logic of its own: Compress delegates to the
// strategy and returns its result unchanged.
type Manager struct {
	config   Config
	strategy StrategyExecutor
	counter  tokenizer.Counter
	logger   Logger
}

// NewManager creates a Manager from the given configuration. When
// config.Counter is nil, a BPE counter wrapped in a memoizing cache is
// used. A nil logger disables logging.
func NewManager(config Config, logger Logger) (*Manager, error) {
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, WrapError("NewManager", err)
	}

	if logger == nil {
		logger = noopLogger{}
	}

	counter := config.Counter
	if counter == nil {
		base, err := tokenizer.NewTiktokenCounter()
		if err != nil {
			return nil, NewCompactError("NewManager", ErrTokenCounterUnavailable).
				WithContext("cause", err.Error())
		}
		counter = tokenizer.NewCachedCounter(base)
	}

	strategy := config.Executor
	if strategy == nil {
		var err error
		strategy, err = newExecutor(config)
		if err != nil {
			return nil, WrapError("NewManager", err)
		}
	}

	return &Manager{
		config:   config,
		strategy: strategy,
		counter:  counter,
		logger:   logger,
	}, nil
}

// Compress reduces the conversation to the configured budget using the
// configured strategy. The result is an order-preserving, possibly
// content-shrunk subsequence of the input (plus at most one synthetic
// summary message). When no subsequence can satisfy the budget, the
// best-effort minimal result is returned; detect that case by re-counting
// with CountTokens.
func (m *Manager) Compress(ctx context.Context, messages []types.Message) []types.Message {
	opID := uuid.NewString()
	before := m.counter.CountMessages(messages)

	m.logger.Debug("starting reduction",
		"op_id", opID,
		"strategy", m.strategy.Name(),
		"max_tokens", m.config.MaxTokens,
		"messages", len(messages),
		"tokens", before,
	)

	result := m.strategy.Compress(ctx, messages, m.config.MaxTokens, m.counter)
	after := m.counter.CountMessages(result)

	m.logger.Info("reduction complete",
		"op_id", opID,
		"strategy", m.strategy.Name(),
		"original_tokens", before,
		"reduced_tokens", after,
		"messages_in", len(messages),
		"messages_out", len(result),
	)

	if after > m.config.MaxTokens {
		m.logger.Warn("budget unsatisfiable",
			"op_id", opID,
			"max_tokens", m.config.MaxTokens,
			"reduced_tokens", after,
		)
	}

	return result
}

// CountTokens returns the accounted token count of a conversation using
// the manager's counter.
func (m *Manager) CountTokens(messages []types.Message) int {
	return m.counter.CountMessages(messages)
}

// Config returns the manager's configuration.
func (m *Manager) Config() Config {
	return m.config
}
