package llm

import (
	"context"
)

// Provider defines the interface for text generation providers
type Provider interface {
	// Generate produces a completion for the given prompt
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)

	// IsHealthy checks if the provider is healthy and available
	IsHealthy(ctx context.Context) error

	// GetProviderName returns the name of the provider
	GetProviderName() string
}

// Generator is the narrow dependency consumers take. Callers must tolerate
// errors from it and fall back to deterministic behavior.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
	IsHealthy() bool
}
