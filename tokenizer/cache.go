package tokenizer

import "github.com/contextkit/contextkit/types"

// CachedCounter memoizes Count results by exact text for the lifetime of
// the counter instance. Message texts repeat heavily across successive
// reduction passes over the same conversation, so identical strings are
// only ever tokenized once.
//
// The cache has no eviction: its size is bounded by the number of distinct
// texts seen, not by call volume. A long-lived counter shared across many
// unrelated conversations will grow without limit; embed a fresh instance
// per conversation, or wrap one behind your own eviction, if that matters.
//
// CachedCounter is not safe for concurrent use. Callers sharing one
// instance across goroutines must synchronize externally.
type CachedCounter struct {
	inner Counter
	cache map[string]int
}

// NewCachedCounter wraps inner with a memoization layer.
func NewCachedCounter(inner Counter) *CachedCounter {
	return &CachedCounter{
		inner: inner,
		cache: make(map[string]int),
	}
}

// Count returns the token count of text, computing it at most once per
// distinct string.
func (c *CachedCounter) Count(text string) int {
	if n, ok := c.cache[text]; ok {
		return n
	}
	n := c.inner.Count(text)
	c.cache[text] = n
	return n
}

// CountMessages returns the wire-format token count of a conversation.
// The count as a whole is not cached, since message structure varies, but
// every text field is routed through the cached Count.
func (c *CachedCounter) CountMessages(messages []types.Message) int {
	return ConversationTokens(c, messages)
}

// Size returns the number of cached entries.
func (c *CachedCounter) Size() int {
	return len(c.cache)
}
