package models

import (
	"time"

	"github.com/google/uuid"
)

// MealType represents which meal of the day an entry belongs to
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
)

// Meal represents a logged meal
type Meal struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	MealType  MealType  `json:"meal_type"`
	Calories  *int      `json:"calories,omitempty"`
	EatenOn   time.Time `json:"eaten_on"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
