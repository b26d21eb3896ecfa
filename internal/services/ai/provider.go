package ai

import (
	"context"

	"github.com/graham-fleming/lifehub/internal/models"
)

// Classification is the structured result of classifying a piece of text
type Classification struct {
	Title    string                   `json:"title"`
	Summary  string                   `json:"summary"`
	Category models.SaverCategory     `json:"category"`
	Tags     []string                 `json:"tags"`
	Metadata models.SavedItemMetadata `json:"metadata"`
}

// AIProvider is the interface for AI providers
type AIProvider interface {
	// Classify analyzes free-form text and returns a structured classification
	Classify(ctx context.Context, text string) (*Classification, error)

	// Embed returns the embedding vector for the given text
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ProviderFactory creates an AI provider based on the provider type
type ProviderFactory func(config map[string]string) (AIProvider, error)

// ProviderRegistry stores available AI providers
type ProviderRegistry struct {
	providers map[string]ProviderFactory
}

// NewProviderRegistry creates a new provider registry
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]ProviderFactory),
	}
}

// Register registers a provider factory
func (r *ProviderRegistry) Register(name string, factory ProviderFactory) {
	r.providers[name] = factory
}

// GetProvider gets a provider by name
func (r *ProviderRegistry) GetProvider(name string, config map[string]string) (AIProvider, error) {
	factory, ok := r.providers[name]
	if !ok {
		return nil, &ErrProviderNotFound{Name: name}
	}

	return factory(config)
}

// ErrProviderNotFound is returned when a provider is not found
type ErrProviderNotFound struct {
	Name string
}

func (e *ErrProviderNotFound) Error() string {
	return "AI provider not found: " + e.Name
}
