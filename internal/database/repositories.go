package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/graham-fleming/lifehub/internal/models"
)

// SavedItemRepositoryInterface defines the interface for saved item repository operations
// This interface enables better testability by allowing mock implementations
type SavedItemRepositoryInterface interface {
	Create(ctx context.Context, item *models.SavedItem, embedding []float32) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SavedItem, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, category *models.SaverCategory) ([]*models.SavedItem, error)
	SearchSimilar(ctx context.Context, userID uuid.UUID, embedding []float32, limit int, threshold float64) ([]*models.SavedItem, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	ListIDsByUserID(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error
}

// UserActivityRepositoryInterface defines the interface for user activity repository operations
type UserActivityRepositoryInterface interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserActivity, error)
	UpdateLastInteraction(ctx context.Context, userID uuid.UUID) error
	GetActiveUsers(ctx context.Context, window time.Duration) ([]uuid.UUID, error)
}

// Ensure concrete types implement the interfaces
var (
	_ SavedItemRepositoryInterface    = (*SavedItemRepository)(nil)
	_ UserActivityRepositoryInterface = (*UserActivityRepository)(nil)
)
