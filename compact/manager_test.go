package compact

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/contextkit/contextkit/tokenizer"
	"github.com/contextkit/contextkit/types"
)

// fixedExecutor returns a canned result regardless of input.
type fixedExecutor struct {
	out []types.Message
}

func (f *fixedExecutor) Name() Strategy { return Strategy("fixed") }

func (f *fixedExecutor) Compress(ctx context.Context, messages []types.Message, budget int, counter tokenizer.Counter) []types.Message {
	return f.out
}

// recordingLogger captures log messages by level.
type recordingLogger struct {
	debug, info, warn, errs []string
}

func (l *recordingLogger) Debug(msg string, args ...any) { l.debug = append(l.debug, msg) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.info = append(l.info, msg) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.warn = append(l.warn, msg) }
func (l *recordingLogger) Error(msg string, args ...any) { l.errs = append(l.errs, msg) }

func TestNewManager_invalidConfig(t *testing.T) {
	counter := tokenizer.HeuristicCounter{}

	tests := []struct {
		name   string
		config Config
	}{
		{"zero budget", Config{Counter: counter}},
		{"negative budget", Config{MaxTokens: -1, Counter: counter}},
		{"unknown strategy", Config{MaxTokens: 100, Strategy: "bogus", Counter: counter}},
		{"summary without summarizer", Config{MaxTokens: 100, Strategy: StrategySummary, Counter: counter}},
		{"reduce ratio too large", Config{MaxTokens: 100, ReduceRatio: 1.5, Counter: counter}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewManager(tt.config, nil)
			if err == nil {
				t.Fatal("NewManager() succeeded, want error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error = %v, want ErrInvalidConfig", err)
			}
			var ce *CompactError
			if !errors.As(err, &ce) {
				t.Fatalf("error type = %T, want *CompactError", err)
			}
			if ce.Op != "NewManager" {
				t.Errorf("Op = %q, want NewManager", ce.Op)
			}
		})
	}
}

func TestNewManager_appliesDefaults(t *testing.T) {
	m, err := NewManager(Config{MaxTokens: 100, Counter: tokenizer.HeuristicCounter{}}, nil)
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}

	cfg := m.Config()
	if cfg.Strategy != DefaultStrategy {
		t.Errorf("Strategy = %q, want %q", cfg.Strategy, DefaultStrategy)
	}
	if cfg.ReduceRatio != DefaultReduceRatio {
		t.Errorf("ReduceRatio = %f, want %f", cfg.ReduceRatio, DefaultReduceRatio)
	}
	if cfg.MinContentTokens != DefaultMinContentTokens {
		t.Errorf("MinContentTokens = %d, want %d", cfg.MinContentTokens, DefaultMinContentTokens)
	}
	if cfg.PreserveRecent != DefaultPreserveRecent {
		t.Errorf("PreserveRecent = %d, want %d", cfg.PreserveRecent, DefaultPreserveRecent)
	}
}

func TestManager_Compress_delegatesToStrategy(t *testing.T) {
	counter := tokenizer.HeuristicCounter{}
	cfg := DefaultConfig()
	cfg.MaxTokens = 60
	cfg.Counter = counter

	m, err := NewManager(cfg, nil)
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}

	messages := conversationFixture()
	got := m.Compress(context.Background(), messages)
	want := NewLastTruncationStrategy(true, DefaultMinContentTokens).
		Compress(context.Background(), messages, 60, counter)

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compress() differs from configured strategy:\n got %v\nwant %v", roles(got), roles(want))
	}
	if m.CountTokens(got) > 60 {
		t.Errorf("result cost = %d, exceeds budget 60", m.CountTokens(got))
	}
}

func TestManager_Compress_idempotent(t *testing.T) {
	counter := tokenizer.HeuristicCounter{}
	cfg := DefaultConfig()
	cfg.MaxTokens = 60
	cfg.Counter = counter

	m, err := NewManager(cfg, nil)
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}

	first := m.Compress(context.Background(), conversationFixture())
	second := m.Compress(context.Background(), first)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("not idempotent:\nfirst  %v\nsecond %v", roles(first), roles(second))
	}
}

func TestManager_customExecutor(t *testing.T) {
	fixed := &fixedExecutor{out: []types.Message{types.NewUserMessage("canned")}}
	cfg := Config{
		MaxTokens: 100,
		Executor:  fixed,
		Counter:   tokenizer.HeuristicCounter{},
	}

	m, err := NewManager(cfg, nil)
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}

	got := m.Compress(context.Background(), conversationFixture())
	if !reflect.DeepEqual(got, fixed.out) {
		t.Errorf("Compress() = %+v, want the executor's canned result", got)
	}
}

func TestManager_CountTokens(t *testing.T) {
	counter := tokenizer.HeuristicCounter{}
	cfg := DefaultConfig()
	cfg.MaxTokens = 100
	cfg.Counter = counter

	m, err := NewManager(cfg, nil)
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}

	messages := conversationFixture()
	if got, want := m.CountTokens(messages), counter.CountMessages(messages); got != want {
		t.Errorf("CountTokens() = %d, want %d", got, want)
	}
}

func TestManager_logsReduction(t *testing.T) {
	logger := &recordingLogger{}
	cfg := DefaultConfig()
	cfg.MaxTokens = 60
	cfg.Counter = tokenizer.HeuristicCounter{}

	m, err := NewManager(cfg, logger)
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}

	m.Compress(context.Background(), conversationFixture())

	if len(logger.debug) != 1 || logger.debug[0] != "starting reduction" {
		t.Errorf("debug logs = %v", logger.debug)
	}
	if len(logger.info) != 1 || logger.info[0] != "reduction complete" {
		t.Errorf("info logs = %v", logger.info)
	}
	if len(logger.warn) != 0 {
		t.Errorf("unexpected warnings: %v", logger.warn)
	}
}

func TestManager_warnsWhenBudgetUnsatisfiable(t *testing.T) {
	logger := &recordingLogger{}
	oversized := &fixedExecutor{out: conversationFixture()}
	cfg := Config{
		MaxTokens: 10,
		Executor:  oversized,
		Counter:   tokenizer.HeuristicCounter{},
	}

	m, err := NewManager(cfg, logger)
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}

	m.Compress(context.Background(), conversationFixture())

	if len(logger.warn) != 1 || logger.warn[0] != "budget unsatisfiable" {
		t.Errorf("warn logs = %v, want budget unsatisfiable", logger.warn)
	}
}
