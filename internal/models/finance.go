package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTransactionCategory is applied when a transaction is created without a category
const DefaultTransactionCategory = "other"

// Transaction represents a single income or expense entry
type Transaction struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	OccurredOn  time.Time `json:"occurred_on"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Budget represents a monthly spending cap for a category.
// Keyed by the natural composite key (user_id, category, month) rather
// than a surrogate id; writes are upsert-on-conflict.
type Budget struct {
	UserID    uuid.UUID `json:"user_id"`
	Category  string    `json:"category"`
	Month     string    `json:"month"` // "2026-08"
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
