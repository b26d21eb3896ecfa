package models

import (
	"time"

	"github.com/google/uuid"
)

// Workout represents a logged exercise session
type Workout struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	Name            string    `json:"name"`
	Activity        string    `json:"activity"`
	DurationMinutes int       `json:"duration_minutes"`
	OccurredOn      time.Time `json:"occurred_on"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
