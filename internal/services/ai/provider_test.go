package ai

import (
	"context"
	"errors"
	"testing"
)

type staticProvider struct{}

func (staticProvider) Classify(ctx context.Context, text string) (*Classification, error) {
	return &Classification{Title: "x"}, nil
}

func (staticProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1}, nil
}

func TestProviderRegistry(t *testing.T) {
	t.Parallel()

	registry := NewProviderRegistry()
	registry.Register("static", func(config map[string]string) (AIProvider, error) {
		return staticProvider{}, nil
	})

	provider, err := registry.GetProvider("static", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if provider == nil {
		t.Fatal("Expected a provider")
	}

	_, err = registry.GetProvider("missing", nil)
	var notFound *ErrProviderNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected ErrProviderNotFound, got %v", err)
	}
	if notFound.Name != "missing" {
		t.Errorf("Expected name 'missing', got %q", notFound.Name)
	}
}

func TestRegisterOpenAI(t *testing.T) {
	t.Parallel()

	registry := NewProviderRegistry()
	RegisterOpenAI(registry)

	tests := []struct {
		name    string
		config  map[string]string
		wantErr bool
	}{
		{
			name:    "missing api key",
			config:  map[string]string{"model": "gpt-4o-mini"},
			wantErr: true,
		},
		{
			name:    "empty api key",
			config:  map[string]string{"api_key": ""},
			wantErr: true,
		},
		{
			name: "valid config",
			config: map[string]string{
				"api_key":         "sk-test",
				"model":           "gpt-4o-mini",
				"embedding_model": "text-embedding-3-small",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider, err := registry.GetProvider("openai", tt.config)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if provider == nil {
				t.Fatal("Expected a provider")
			}
		})
	}
}
