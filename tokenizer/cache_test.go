package tokenizer

import (
	"testing"

	"github.com/contextkit/contextkit/types"
)

// countingCounter records how many times each text is tokenized.
type countingCounter struct {
	calls map[string]int
}

func newCountingCounter() *countingCounter {
	return &countingCounter{calls: make(map[string]int)}
}

func (c *countingCounter) Count(text string) int {
	c.calls[text]++
	return len(text)
}

func (c *countingCounter) CountMessages(messages []types.Message) int {
	return ConversationTokens(c, messages)
}

func TestCachedCounter_memoizes(t *testing.T) {
	inner := newCountingCounter()
	cached := NewCachedCounter(inner)

	if got := cached.Count("hello"); got != 5 {
		t.Errorf("Count() = %d, want 5", got)
	}
	if got := cached.Count("hello"); got != 5 {
		t.Errorf("second Count() = %d, want 5", got)
	}
	if inner.calls["hello"] != 1 {
		t.Errorf("inner counted %d times, want 1", inner.calls["hello"])
	}

	if got := cached.Count("world"); got != 5 {
		t.Errorf("Count() = %d, want 5", got)
	}
	if cached.Size() != 2 {
		t.Errorf("Size() = %d, want 2", cached.Size())
	}
}

func TestCachedCounter_cachesEmptyString(t *testing.T) {
	inner := newCountingCounter()
	cached := NewCachedCounter(inner)

	cached.Count("")
	cached.Count("")
	if inner.calls[""] != 1 {
		t.Errorf("inner counted empty string %d times, want 1", inner.calls[""])
	}
}

func TestCachedCounter_CountMessages(t *testing.T) {
	inner := newCountingCounter()
	cached := NewCachedCounter(inner)

	messages := []types.Message{
		types.NewUserMessage("same text"),
		types.NewUserMessage("same text"),
	}

	first := cached.CountMessages(messages)
	second := cached.CountMessages(messages)
	if first != second {
		t.Errorf("counts differ: %d vs %d", first, second)
	}
	if inner.calls["same text"] != 1 {
		t.Errorf("inner counted repeated content %d times, want 1", inner.calls["same text"])
	}
	// Role text is shared across both messages too.
	if inner.calls[types.RoleUser] != 1 {
		t.Errorf("inner counted role %d times, want 1", inner.calls[types.RoleUser])
	}
}
