package models

import (
	"time"

	"github.com/google/uuid"
)

// MoodEntry represents a daily wellness check-in.
// Keyed by (user_id, entry_date); one row per day, writes are
// upsert-on-conflict so the latest write wins.
type MoodEntry struct {
	UserID    uuid.UUID `json:"user_id"`
	EntryDate string    `json:"entry_date"` // "2026-08-30"
	Mood      int       `json:"mood"`       // 1 (low) .. 5 (high)
	Energy    int       `json:"energy"`     // 1 (low) .. 5 (high)
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
