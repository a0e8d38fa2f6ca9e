package compact

import (
	"errors"
	"fmt"
)

// Sentinel errors for reduction operations.
var (
	// ErrInvalidConfig indicates invalid reduction configuration: a
	// non-positive budget, an unknown strategy name, or the summary
	// strategy selected without a summarizer.
	ErrInvalidConfig = errors.New("invalid reduction configuration")

	// ErrSummarizationFailed indicates the injected summarizer failed.
	// The summary strategy recovers from it internally; it surfaces only
	// from Summarizer implementations.
	ErrSummarizationFailed = errors.New("summarization failed")

	// ErrTokenCounterUnavailable indicates the default token counter could
	// not be constructed.
	ErrTokenCounterUnavailable = errors.New("token counter unavailable")
)

// CompactError provides structured error context for reduction operations.
type CompactError struct {
	// Op is the operation that failed (e.g., "NewManager").
	Op string

	// Err is the underlying error.
	Err error

	// Context holds additional key-value pairs for debugging.
	Context map[string]any
}

// Error returns a formatted error message.
func (e *CompactError) Error() string {
	msg := fmt.Sprintf("compact %s failed", e.Op)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *CompactError) Unwrap() error {
	return e.Err
}

// NewCompactError creates a CompactError for the given operation.
func NewCompactError(op string, err error) *CompactError {
	return &CompactError{
		Op:      op,
		Err:     err,
		Context: make(map[string]any),
	}
}

// WithContext adds a key-value pair to the error context and returns the
// error for chaining.
func (e *CompactError) WithContext(key string, value any) *CompactError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WrapError wraps an error with operation context. If err is nil, returns nil.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return NewCompactError(op, err)
}
