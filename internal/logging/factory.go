package logging

import (
	"fmt"
	"time"

	"jobpilot/internal/config"
	"jobpilot/internal/logging/adapters"
	"jobpilot/internal/logging/types"
)

// buildAdapters creates one adapter per enabled config entry. An empty
// adapter list falls back to a single stdout adapter using the top-level
// format setting.
func buildAdapters(cfg *config.Config) ([]types.LogAdapter, error) {
	var built []types.LogAdapter

	for _, ac := range cfg.Logging.Adapters {
		if !ac.Enabled {
			continue
		}
		adapter, err := buildAdapter(ac.Name, ac.Type, ac.Options)
		if err != nil {
			return nil, fmt.Errorf("failed to create adapter %s: %w", ac.Name, err)
		}
		built = append(built, adapter)
	}

	if len(built) == 0 {
		built = append(built, adapters.NewStdoutAdapter("stdout", adapters.StdoutConfig{
			Format: cfg.Logging.Format,
		}))
	}
	return built, nil
}

func buildAdapter(name, kind string, options map[string]interface{}) (types.LogAdapter, error) {
	switch kind {
	case "stdout":
		return adapters.NewStdoutAdapter(name, adapters.StdoutConfig{
			Format: stringOption(options, "format", "json"),
		}), nil
	case "file":
		path := stringOption(options, "file_path", "")
		if path == "" {
			return nil, fmt.Errorf("file_path is required for file adapter")
		}
		return adapters.NewFileAdapter(name, adapters.FileConfig{
			FilePath:   path,
			Format:     stringOption(options, "format", "json"),
			MaxSize:    int64Option(options, "max_size", 0),
			MaxBackups: intOption(options, "max_backups", 5),
			MaxAge:     durationOption(options, "max_age", 0),
		})
	default:
		return nil, fmt.Errorf("unsupported adapter type: %s", kind)
	}
}

func stringOption(options map[string]interface{}, key, fallback string) string {
	if v, ok := options[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func intOption(options map[string]interface{}, key string, fallback int) int {
	switch v := options[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return fallback
}

func int64Option(options map[string]interface{}, key string, fallback int64) int64 {
	switch v := options[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return fallback
}

func durationOption(options map[string]interface{}, key string, fallback time.Duration) time.Duration {
	if v, ok := options[key].(string); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
