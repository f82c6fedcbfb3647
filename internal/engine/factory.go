package engine

import (
	"fmt"

	"jobpilot/internal/config"
	"jobpilot/internal/llm"
	"jobpilot/internal/platform"
	"jobpilot/internal/platform/linkedin"
)

// DefaultPlatformFactory implements platform.PlatformFactory
type DefaultPlatformFactory struct {
	config     *config.Config
	llmManager *llm.Manager
}

// NewPlatformFactory creates a new platform factory
func NewPlatformFactory(cfg *config.Config, llmManager *llm.Manager) platform.PlatformFactory {
	return &DefaultPlatformFactory{
		config:     cfg,
		llmManager: llmManager,
	}
}

// CreatePlatform creates a new platform instance for the given name
func (f *DefaultPlatformFactory) CreatePlatform(name string) (platform.Platform, error) {
	switch name {
	case "linkedin", "":
		return linkedin.New(f.config, f.llmManager)
	default:
		return nil, fmt.Errorf("unsupported platform: %s", name)
	}
}

// GetSupportedPlatforms returns a list of supported platform names
func (f *DefaultPlatformFactory) GetSupportedPlatforms() []string {
	return []string{"linkedin"}
}
