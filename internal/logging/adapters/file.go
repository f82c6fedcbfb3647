package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"jobpilot/internal/logging/types"
)

// FileConfig configures the file adapter. MaxSize of zero disables size
// rotation; MaxAge of zero disables backup expiry.
type FileConfig struct {
	FilePath   string
	Format     string // "json" or "text"
	MaxSize    int64  // bytes before rotation
	MaxBackups int
	MaxAge     time.Duration
}

// FileAdapter appends entries to a log file with size-based rotation
type FileAdapter struct {
	name   string
	config FileConfig

	mu   sync.Mutex
	file *os.File
	size int64
}

// NewFileAdapter creates a file adapter, creating parent directories as needed
func NewFileAdapter(name string, cfg FileConfig) (*FileAdapter, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	a := &FileAdapter{name: name, config: cfg}
	if err := a.open(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *FileAdapter) Write(entry *types.LogEntry) error {
	line, err := formatEntry(entry, a.config.Format)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.config.MaxSize > 0 && a.size+int64(len(line))+1 > a.config.MaxSize {
		if err := a.rotate(); err != nil {
			return err
		}
	}

	n, err := fmt.Fprintln(a.file, line)
	a.size += int64(n)
	return err
}

func (a *FileAdapter) Name() string { return a.name }

func (a *FileAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.file == nil {
		return nil
	}
	err := a.file.Close()
	a.file = nil
	return err
}

func (a *FileAdapter) open() error {
	file, err := os.OpenFile(a.config.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}
	a.file = file
	a.size = info.Size()
	return nil
}

// rotate renames the current file with a timestamp suffix and reopens a
// fresh one, pruning backups beyond MaxBackups or MaxAge
func (a *FileAdapter) rotate() error {
	if err := a.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file for rotation: %w", err)
	}

	backup := fmt.Sprintf("%s.%s", a.config.FilePath, time.Now().Format("20060102-150405"))
	if err := os.Rename(a.config.FilePath, backup); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}

	a.pruneBackups()
	return a.open()
}

func (a *FileAdapter) pruneBackups() {
	pattern := a.config.FilePath + ".*"
	backups, err := filepath.Glob(pattern)
	if err != nil {
		return
	}
	sort.Strings(backups) // timestamp suffixes sort oldest first

	if a.config.MaxAge > 0 {
		cutoff := time.Now().Add(-a.config.MaxAge)
		for _, path := range backups {
			if info, err := os.Stat(path); err == nil && info.ModTime().Before(cutoff) {
				os.Remove(path)
			}
		}
		backups, _ = filepath.Glob(pattern)
		sort.Strings(backups)
	}

	if a.config.MaxBackups > 0 && len(backups) > a.config.MaxBackups {
		for _, path := range backups[:len(backups)-a.config.MaxBackups] {
			os.Remove(path)
		}
	}
}
