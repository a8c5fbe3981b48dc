package logging

import (
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Logger provides topic-based debug logging with minimal overhead when disabled.
// Loggers are usually package vars, so the enabled check happens per call
// against the current topic set rather than at construction.
type Logger struct {
	topic string
}

var enabledTopics atomic.Pointer[map[string]bool]

func init() {
	// DEBUG_TOPICS=window,pivot,sequence
	Configure(os.Getenv("DEBUG_TOPICS"))
}

// Configure replaces the enabled topic set from a comma-separated list.
// "all" enables every topic. Enabling anything switches slog to DEBUG.
func Configure(topics string) {
	set := make(map[string]bool)

	if strings.TrimSpace(topics) == "all" {
		set["*"] = true
	} else {
		for _, topic := range strings.Split(topics, ",") {
			topic = strings.TrimSpace(topic)
			if topic != "" {
				set[topic] = true
			}
		}
	}

	enabledTopics.Store(&set)

	if len(set) > 0 {
		configureSlog()
	}
}

// configureSlog sets slog's default logger to DEBUG level
func configureSlog() {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	handler := slog.NewTextHandler(os.Stderr, opts)
	slog.SetDefault(slog.New(handler))
}

// New creates a new topic-specific logger
// Usage: var pivotLog = logging.New("pivot")
func New(topic string) *Logger {
	return &Logger{topic: topic}
}

// Enabled returns true if this logger's topic is enabled
// Useful for expensive computations: if log.Enabled() { ... }
func (l *Logger) Enabled() bool {
	set := enabledTopics.Load()
	if set == nil {
		return false
	}
	return (*set)["*"] || (*set)[l.topic]
}

func (l *Logger) Debug(msg string, args ...any) {
	if !l.Enabled() {
		return
	}
	slog.Debug(msg, l.withTopic(args)...)
}

func (l *Logger) Info(msg string, args ...any) {
	if !l.Enabled() {
		return
	}
	slog.Info(msg, l.withTopic(args)...)
}

func (l *Logger) Warn(msg string, args ...any) {
	if !l.Enabled() {
		return
	}
	slog.Warn(msg, l.withTopic(args)...)
}

func (l *Logger) withTopic(args []any) []any {
	return append([]any{"topic", l.topic}, args...)
}

func (l *Logger) Topic() string {
	return l.topic
}
