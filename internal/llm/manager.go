package llm

import (
	"context"
	"fmt"
	"sync"

	"jobpilot/internal/config"
	"jobpilot/internal/logging"
	"jobpilot/internal/logging/types"
)

// Manager manages the text generation provider and its lifecycle
type Manager struct {
	config   *config.Config
	factory  *Factory
	provider Provider
	logger   types.Logger
	mu       sync.RWMutex
	healthy  bool
}

// NewManager creates a new manager instance
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		config:  cfg,
		factory: NewFactory(cfg),
		logger:  logging.GetGlobalLogger(),
	}
}

// Start initializes the manager and creates the provider
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Starting LLM manager", map[string]interface{}{
		"provider": m.config.LLM.Provider,
	})

	provider, err := m.factory.CreateProvider()
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}

	m.provider = provider

	ctx, cancel := context.WithTimeout(context.Background(), m.config.LLM.Timeout)
	defer cancel()

	if err := m.provider.IsHealthy(ctx); err != nil {
		m.logger.Warn("LLM provider health check failed - falling back to deterministic answers", map[string]interface{}{
			"error": err.Error(),
		})
		m.healthy = false
		// Don't return error - sessions run with rule-based fallbacks only
	} else {
		m.healthy = true
		m.logger.Info("LLM manager started successfully", map[string]interface{}{
			"provider": m.provider.GetProviderName(),
		})
	}

	return nil
}

// Stop shuts down the manager
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Stopping LLM manager")
	m.provider = nil
	m.healthy = false
	return nil
}

// Generate produces a completion using the configured provider
func (m *Manager) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	m.mu.RLock()
	provider := m.provider
	healthy := m.healthy
	m.mu.RUnlock()

	if provider == nil {
		return "", fmt.Errorf("LLM manager not started or provider not available")
	}

	if !healthy {
		return "", fmt.Errorf("LLM provider is not available - check API key configuration (set LLM_API_KEY environment variable)")
	}

	genCtx, cancel := context.WithTimeout(ctx, m.config.LLM.Timeout)
	defer cancel()

	return provider.Generate(genCtx, prompt, maxTokens)
}

// IsHealthy checks if the manager and provider are healthy
func (m *Manager) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthy && m.provider != nil
}

// GetProviderName returns the name of the current provider
func (m *Manager) GetProviderName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.provider != nil {
		return m.provider.GetProviderName()
	}
	return "none"
}

// CheckHealth performs a health check on the provider
func (m *Manager) CheckHealth(ctx context.Context) error {
	m.mu.RLock()
	provider := m.provider
	m.mu.RUnlock()

	if provider == nil {
		return fmt.Errorf("LLM provider not available")
	}

	err := provider.IsHealthy(ctx)

	m.mu.Lock()
	m.healthy = (err == nil)
	m.mu.Unlock()

	return err
}
