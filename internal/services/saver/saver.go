// Package saver implements the universal save pipeline: free-form text is
// classified into a structured record, embedded, and persisted with its
// vector so it can be found again by similarity search.
package saver

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/graham-fleming/lifehub/internal/database"
	"github.com/graham-fleming/lifehub/internal/models"
	"github.com/graham-fleming/lifehub/internal/services/ai"
)

const (
	// MaxTextLength is the maximum length of text accepted for saving
	MaxTextLength = 50000
	// EmbeddingTextLimit caps how much of the raw text feeds the embedding
	EmbeddingTextLimit = 8000
	// SearchLimit is the maximum number of results a similarity search returns
	SearchLimit = 20
	// SearchThreshold is the minimum cosine similarity for a search hit
	SearchThreshold = 0.3
)

// ErrTextTooLong is returned when the input exceeds MaxTextLength
var ErrTextTooLong = fmt.Errorf("text exceeds maximum length of %d characters", MaxTextLength)

// ErrEmptyText is returned when the input is empty or whitespace
var ErrEmptyText = fmt.Errorf("text cannot be empty")

// ProviderError wraps a failure from the model provider so callers can
// distinguish it from validation and storage errors.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return e.Op + " failed: " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Service runs the save and search pipelines
type Service struct {
	provider ai.AIProvider
	repo     database.SavedItemRepositoryInterface
	logger   *zap.Logger
}

// NewService creates a new saver service
func NewService(provider ai.AIProvider, repo database.SavedItemRepositoryInterface, logger *zap.Logger) *Service {
	return &Service{
		provider: provider,
		repo:     repo,
		logger:   logger,
	}
}

// Save classifies, embeds, and persists a piece of text for a user.
// Input is validated before any provider call is made.
func (s *Service) Save(ctx context.Context, userID uuid.UUID, text string) (*models.SavedItem, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return nil, ErrTextTooLong
	}

	classification, err := s.provider.Classify(ctx, text)
	if err != nil {
		return nil, &ProviderError{Op: "classification", Err: err}
	}

	embedding, err := s.provider.Embed(ctx, EmbeddingInput(classification.Title, classification.Summary, text))
	if err != nil {
		return nil, &ProviderError{Op: "embedding", Err: err}
	}

	item := &models.SavedItem{
		ID:       uuid.New(),
		UserID:   userID,
		RawText:  text,
		Title:    classification.Title,
		Summary:  classification.Summary,
		Category: classification.Category,
		Tags:     classification.Tags,
		Metadata: classification.Metadata,
	}

	if err := s.repo.Create(ctx, item, embedding); err != nil {
		return nil, fmt.Errorf("failed to persist saved item: %w", err)
	}

	s.logger.Info("saved_item_created",
		zap.String("item_id", item.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("category", string(item.Category)),
		zap.Int("text_length", len(text)),
	)

	return item, nil
}

// EmbeddingInput builds the text fed to the embedding model: the
// classifier's title and summary, then the raw text capped at
// EmbeddingTextLimit characters. The cap counts runes so a multibyte
// character is never split.
func EmbeddingInput(title, summary, rawText string) string {
	if utf8.RuneCountInString(rawText) > EmbeddingTextLimit {
		rawText = string([]rune(rawText)[:EmbeddingTextLimit])
	}
	return title + "\n" + summary + "\n" + rawText
}

// Search embeds the query and returns the user's most similar items. The
// category filter is applied after retrieval, so a filtered search may
// return fewer than SearchLimit items even when more matches exist in
// that category. Result order follows descending similarity throughout.
func (s *Service) Search(ctx context.Context, userID uuid.UUID, query string, category *models.SaverCategory) ([]*models.SavedItem, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyText
	}

	embedding, err := s.provider.Embed(ctx, query)
	if err != nil {
		return nil, &ProviderError{Op: "query embedding", Err: err}
	}

	items, err := s.repo.SearchSimilar(ctx, userID, embedding, SearchLimit, SearchThreshold)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	if category != nil {
		filtered := make([]*models.SavedItem, 0, len(items))
		for _, item := range items {
			if item.Category == *category {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	return items, nil
}

// Reembed regenerates the embedding for a single stored item. Used when
// migrating the corpus to a new embedding model.
func (s *Service) Reembed(ctx context.Context, itemID uuid.UUID) error {
	item, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to load saved item: %w", err)
	}

	embedding, err := s.provider.Embed(ctx, EmbeddingInput(item.Title, item.Summary, item.RawText))
	if err != nil {
		return &ProviderError{Op: "embedding", Err: err}
	}

	if err := s.repo.UpdateEmbedding(ctx, itemID, embedding); err != nil {
		return fmt.Errorf("failed to store embedding: %w", err)
	}

	return nil
}
