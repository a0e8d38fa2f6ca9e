// Package compact keeps a conversation within a hard token budget before it
// is sent to a text-generation service.
//
// Callers supply an ordered conversation and a maximum token count; the
// package returns a conversation that fits the budget whenever that is
// structurally possible, while preserving system instructions, recent turns,
// and tool-call/tool-result pairing.
//
// # Strategies
//
// Four interchangeable reduction strategies are provided:
//
//   - First truncation (StrategyFirst): keeps the leading messages that fit,
//     shrinking the boundary message if possible. Later messages are never
//     considered.
//
//   - Last truncation (StrategyLast): keeps the most recent messages that
//     fit, the usual choice for chat histories.
//
//   - Selective compression (StrategySelective): shrinks or drops the oldest
//     unpinned messages by a configurable ratio until the conversation fits,
//     falling back to last truncation if that is not enough.
//
//   - Summary compression (StrategySummary): replaces older messages with a
//     single generated summary obtained from an injected Summarizer,
//     keeping the most recent messages verbatim. Summarization failures fall
//     back to last truncation.
//
// Every strategy returns an order-preserving subsequence of the input with
// content possibly shrunk; the only fabricated message is the synthetic
// summary. Messages with tool calls are kept whole or dropped whole.
//
// # Usage
//
// Create a Manager with your configuration:
//
//	cfg := compact.DefaultConfig()
//	cfg.MaxTokens = 8000
//	cfg.Strategy = compact.StrategyLast
//
//	manager, err := compact.NewManager(cfg, nil)
//	if err != nil {
//	    return err
//	}
//
//	reduced := manager.Compress(ctx, conversation)
//
// # Budget satisfaction
//
// A budget can be unsatisfiable: a single message whose mandatory fields
// alone exceed MaxTokens cannot be reduced below its own overhead. That is
// not an error: the engine returns its best-effort minimal result, and
// callers that must enforce the budget strictly re-check with CountTokens.
//
// # Concurrency
//
// All operations are synchronous; the only blocking call is the summary
// strategy's single summarization round trip, bounded by the caller's
// context. The default cached token counter is not internally synchronized
// (see tokenizer.CachedCounter); share a Manager across goroutines only
// with an externally synchronized counter.
package compact
