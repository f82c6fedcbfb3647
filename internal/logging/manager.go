package logging

import (
	"sync"

	"jobpilot/internal/config"
	"jobpilot/internal/logging/adapters"
	"jobpilot/internal/logging/types"
)

var (
	globalMu     sync.Mutex
	globalLogger *MultiLogger
)

// InitializeLogging builds the global logger from configuration. Call once
// at startup, before anything asks for the global logger.
func InitializeLogging(cfg *config.Config) error {
	built, err := buildAdapters(cfg)
	if err != nil {
		return err
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = NewMultiLogger(types.ParseLevel(cfg.Logging.Level), built...)
	return nil
}

// GetGlobalLogger returns the process-wide logger. Before initialization it
// returns a JSON stdout logger so early code paths still log somewhere.
func GetGlobalLogger() types.Logger {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = NewMultiLogger(types.InfoLevel,
			adapters.NewStdoutAdapter("stdout", adapters.StdoutConfig{Format: "json"}))
	}
	return globalLogger
}

// CloseLogging flushes and closes the global logger's adapters
func CloseLogging() error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		return nil
	}
	return globalLogger.Close()
}
