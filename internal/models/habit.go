package models

import (
	"time"

	"github.com/google/uuid"
)

// HabitFrequency represents how often a habit should be performed
type HabitFrequency string

const (
	HabitFrequencyDaily  HabitFrequency = "daily"
	HabitFrequencyWeekly HabitFrequency = "weekly"
)

// Habit represents a recurring habit being tracked
type Habit struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	Name      string         `json:"name"`
	Frequency HabitFrequency `json:"frequency"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// HabitCompletion marks a habit as done on a given day.
// Keyed by (habit_id, completed_on); un-marking deletes the row, so
// presence of the row is the completion state.
type HabitCompletion struct {
	HabitID     uuid.UUID `json:"habit_id"`
	UserID      uuid.UUID `json:"user_id"`
	CompletedOn string    `json:"completed_on"` // "2026-08-30"
	CreatedAt   time.Time `json:"created_at"`
}
