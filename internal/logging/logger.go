package logging

import (
	"fmt"
	"os"
	"sync"
	"time"

	"jobpilot/internal/logging/types"
)

// MultiLogger fans entries out to every configured adapter. Child loggers
// from WithFields share the adapter set and the level.
type MultiLogger struct {
	mu       sync.RWMutex
	adapters []types.LogAdapter
	level    types.LogLevel
	fields   map[string]interface{}
	parent   *MultiLogger
}

// NewMultiLogger creates a logger writing to the given adapters
func NewMultiLogger(level types.LogLevel, adapters ...types.LogAdapter) *MultiLogger {
	return &MultiLogger{
		adapters: adapters,
		level:    level,
	}
}

func (l *MultiLogger) Debug(message string, fields ...map[string]interface{}) {
	l.write(types.DebugLevel, message, fields)
}

func (l *MultiLogger) Info(message string, fields ...map[string]interface{}) {
	l.write(types.InfoLevel, message, fields)
}

func (l *MultiLogger) Warn(message string, fields ...map[string]interface{}) {
	l.write(types.WarnLevel, message, fields)
}

func (l *MultiLogger) Error(message string, fields ...map[string]interface{}) {
	l.write(types.ErrorLevel, message, fields)
}

// Fatal logs the message, flushes the adapters and exits the process
func (l *MultiLogger) Fatal(message string, fields ...map[string]interface{}) {
	l.write(types.FatalLevel, message, fields)
	l.Close()
	os.Exit(1)
}

// WithFields returns a child logger that stamps the given fields on every entry
func (l *MultiLogger) WithFields(fields map[string]interface{}) types.Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &MultiLogger{fields: merged, parent: l.root()}
}

func (l *MultiLogger) SetLevel(level types.LogLevel) {
	root := l.root()
	root.mu.Lock()
	root.level = level
	root.mu.Unlock()
}

// Close closes every adapter, reporting the first failure
func (l *MultiLogger) Close() error {
	root := l.root()
	root.mu.Lock()
	defer root.mu.Unlock()

	var firstErr error
	for _, adapter := range root.adapters {
		if err := adapter.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close adapter %s: %w", adapter.Name(), err)
		}
	}
	return firstErr
}

func (l *MultiLogger) root() *MultiLogger {
	if l.parent != nil {
		return l.parent
	}
	return l
}

func (l *MultiLogger) write(level types.LogLevel, message string, extra []map[string]interface{}) {
	root := l.root()
	root.mu.RLock()
	defer root.mu.RUnlock()

	if level < root.level {
		return
	}

	entry := &types.LogEntry{
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
		Fields:    mergeFields(l.fields, extra),
	}

	for _, adapter := range root.adapters {
		if err := adapter.Write(entry); err != nil {
			// Adapter failures go to stderr so a broken sink cannot recurse
			fmt.Fprintf(os.Stderr, "logging adapter %s: %v\n", adapter.Name(), err)
		}
	}
}

func mergeFields(base map[string]interface{}, extra []map[string]interface{}) map[string]interface{} {
	if len(base) == 0 && len(extra) == 0 {
		return nil
	}
	merged := make(map[string]interface{}, len(base))
	for k, v := range base {
		merged[k] = v
	}
	for _, m := range extra {
		for k, v := range m {
			merged[k] = v
		}
	}
	return merged
}
