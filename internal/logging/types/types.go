package types

import (
	"strings"
	"time"
)

// LogLevel is the severity of a log entry
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	case FatalLevel:
		return "fatal"
	}
	return "info"
}

// ParseLevel maps a config string to a level, defaulting to info
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	}
	return InfoLevel
}

// LogEntry is one structured record handed to every adapter
type LogEntry struct {
	Level     LogLevel
	Message   string
	Timestamp time.Time
	Fields    map[string]interface{}
}

// LogAdapter writes entries to one destination
type LogAdapter interface {
	Write(entry *LogEntry) error
	Name() string
	Close() error
}

// Logger is the structured logging interface the rest of the code depends on
type Logger interface {
	Debug(message string, fields ...map[string]interface{})
	Info(message string, fields ...map[string]interface{})
	Warn(message string, fields ...map[string]interface{})
	Error(message string, fields ...map[string]interface{})
	Fatal(message string, fields ...map[string]interface{})

	// WithFields returns a child logger whose entries carry the given
	// fields in addition to any passed per call
	WithFields(fields map[string]interface{}) Logger

	SetLevel(level LogLevel)
	Close() error
}
