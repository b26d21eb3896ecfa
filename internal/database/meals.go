package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/graham-fleming/lifehub/internal/models"
)

// MealRepository handles meal database operations
type MealRepository struct {
	db *DB
}

// NewMealRepository creates a new meal repository
func NewMealRepository(db *DB) *MealRepository {
	return &MealRepository{db: db}
}

// Create creates a new meal entry
func (r *MealRepository) Create(ctx context.Context, meal *models.Meal) error {
	query := `
		INSERT INTO meals (id, user_id, name, meal_type, calories, eaten_on, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		meal.ID,
		meal.UserID,
		meal.Name,
		meal.MealType,
		meal.Calories,
		meal.EatenOn,
		now,
		now,
	).Scan(&meal.CreatedAt, &meal.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create meal: %w", err)
	}

	return nil
}

// GetByID retrieves a meal by ID
func (r *MealRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Meal, error) {
	meal := &models.Meal{}
	query := `
		SELECT id, user_id, name, meal_type, calories, eaten_on, created_at, updated_at
		FROM meals
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&meal.ID,
		&meal.UserID,
		&meal.Name,
		&meal.MealType,
		&meal.Calories,
		&meal.EatenOn,
		&meal.CreatedAt,
		&meal.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("meal not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}

	return meal, nil
}

// GetByUserID retrieves all meals for a user, newest first
func (r *MealRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Meal, error) {
	query := `
		SELECT id, user_id, name, meal_type, calories, eaten_on, created_at, updated_at
		FROM meals
		WHERE user_id = $1
		ORDER BY eaten_on DESC, created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query meals: %w", err)
	}
	defer rows.Close()

	var meals []*models.Meal
	for rows.Next() {
		meal := &models.Meal{}
		err := rows.Scan(
			&meal.ID,
			&meal.UserID,
			&meal.Name,
			&meal.MealType,
			&meal.Calories,
			&meal.EatenOn,
			&meal.CreatedAt,
			&meal.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meals = append(meals, meal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meals: %w", err)
	}

	return meals, nil
}

// Update updates an existing meal
func (r *MealRepository) Update(ctx context.Context, meal *models.Meal) error {
	query := `
		UPDATE meals
		SET name = $2, meal_type = $3, calories = $4, eaten_on = $5, updated_at = $6
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		meal.ID,
		meal.Name,
		meal.MealType,
		meal.Calories,
		meal.EatenOn,
		time.Now(),
	).Scan(&meal.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("meal not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update meal: %w", err)
	}

	return nil
}

// Delete deletes a meal by ID, returning the rows removed
func (r *MealRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM meals WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete meal: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
