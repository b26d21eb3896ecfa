package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/graham-fleming/lifehub/internal/models"
)

// WorkoutRepository handles workout database operations
type WorkoutRepository struct {
	db *DB
}

// NewWorkoutRepository creates a new workout repository
func NewWorkoutRepository(db *DB) *WorkoutRepository {
	return &WorkoutRepository{db: db}
}

// Create creates a new workout
func (r *WorkoutRepository) Create(ctx context.Context, workout *models.Workout) error {
	query := `
		INSERT INTO workouts (id, user_id, name, activity, duration_minutes, occurred_on, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		workout.ID,
		workout.UserID,
		workout.Name,
		workout.Activity,
		workout.DurationMinutes,
		workout.OccurredOn,
		workout.Notes,
		now,
		now,
	).Scan(&workout.CreatedAt, &workout.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create workout: %w", err)
	}

	return nil
}

// GetByID retrieves a workout by ID
func (r *WorkoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Workout, error) {
	workout := &models.Workout{}
	query := `
		SELECT id, user_id, name, activity, duration_minutes, occurred_on, notes, created_at, updated_at
		FROM workouts
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&workout.ID,
		&workout.UserID,
		&workout.Name,
		&workout.Activity,
		&workout.DurationMinutes,
		&workout.OccurredOn,
		&workout.Notes,
		&workout.CreatedAt,
		&workout.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("workout not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workout: %w", err)
	}

	return workout, nil
}

// GetByUserID retrieves all workouts for a user, newest session first
func (r *WorkoutRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Workout, error) {
	query := `
		SELECT id, user_id, name, activity, duration_minutes, occurred_on, notes, created_at, updated_at
		FROM workouts
		WHERE user_id = $1
		ORDER BY occurred_on DESC, created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query workouts: %w", err)
	}
	defer rows.Close()

	var workouts []*models.Workout
	for rows.Next() {
		workout := &models.Workout{}
		err := rows.Scan(
			&workout.ID,
			&workout.UserID,
			&workout.Name,
			&workout.Activity,
			&workout.DurationMinutes,
			&workout.OccurredOn,
			&workout.Notes,
			&workout.CreatedAt,
			&workout.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workout: %w", err)
		}
		workouts = append(workouts, workout)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workouts: %w", err)
	}

	return workouts, nil
}

// Update updates an existing workout
func (r *WorkoutRepository) Update(ctx context.Context, workout *models.Workout) error {
	query := `
		UPDATE workouts
		SET name = $2, activity = $3, duration_minutes = $4, occurred_on = $5, notes = $6, updated_at = $7
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		workout.ID,
		workout.Name,
		workout.Activity,
		workout.DurationMinutes,
		workout.OccurredOn,
		workout.Notes,
		time.Now(),
	).Scan(&workout.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("workout not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update workout: %w", err)
	}

	return nil
}

// Delete deletes a workout by ID, returning the rows removed
func (r *WorkoutRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM workouts WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete workout: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
