package adapters

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"jobpilot/internal/logging/types"
)

// StdoutConfig configures the stdout adapter
type StdoutConfig struct {
	Format string // "json" or "text"
}

// StdoutAdapter writes entries to standard output
type StdoutAdapter struct {
	name   string
	format string
	mu     sync.Mutex
}

// NewStdoutAdapter creates a stdout adapter
func NewStdoutAdapter(name string, cfg StdoutConfig) *StdoutAdapter {
	return &StdoutAdapter{name: name, format: cfg.Format}
}

func (a *StdoutAdapter) Write(entry *types.LogEntry) error {
	line, err := formatEntry(entry, a.format)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err = fmt.Fprintln(os.Stdout, line)
	return err
}

func (a *StdoutAdapter) Name() string { return a.name }

func (a *StdoutAdapter) Close() error { return nil }

// formatEntry renders an entry as one output line. Shared with the file
// adapter so both sinks emit the same shapes.
func formatEntry(entry *types.LogEntry, format string) (string, error) {
	if strings.EqualFold(format, "text") {
		return formatText(entry), nil
	}

	record := map[string]interface{}{
		"level":   entry.Level.String(),
		"message": entry.Message,
		"time":    entry.Timestamp.Format(time.RFC3339),
	}
	for k, v := range entry.Fields {
		record[k] = v
	}
	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to encode log entry: %w", err)
	}
	return string(data), nil
}

func formatText(entry *types.LogEntry) string {
	var b strings.Builder
	b.WriteString(entry.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"))
	b.WriteString(" [")
	b.WriteString(strings.ToUpper(entry.Level.String()))
	b.WriteString("] ")
	b.WriteString(entry.Message)

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, entry.Fields[k])
		}
	}
	return b.String()
}
