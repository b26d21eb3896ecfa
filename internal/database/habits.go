package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/graham-fleming/lifehub/internal/models"
)

// HabitRepository handles habit and habit-completion database operations
type HabitRepository struct {
	db *DB
}

// NewHabitRepository creates a new habit repository
func NewHabitRepository(db *DB) *HabitRepository {
	return &HabitRepository{db: db}
}

// Create creates a new habit
func (r *HabitRepository) Create(ctx context.Context, habit *models.Habit) error {
	query := `
		INSERT INTO habits (id, user_id, name, frequency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		habit.ID,
		habit.UserID,
		habit.Name,
		habit.Frequency,
		now,
		now,
	).Scan(&habit.CreatedAt, &habit.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create habit: %w", err)
	}

	return nil
}

// GetByID retrieves a habit by ID
func (r *HabitRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Habit, error) {
	habit := &models.Habit{}
	query := `
		SELECT id, user_id, name, frequency, created_at, updated_at
		FROM habits
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&habit.ID,
		&habit.UserID,
		&habit.Name,
		&habit.Frequency,
		&habit.CreatedAt,
		&habit.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("habit not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}

	return habit, nil
}

// GetByUserID retrieves all habits for a user
func (r *HabitRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Habit, error) {
	query := `
		SELECT id, user_id, name, frequency, created_at, updated_at
		FROM habits
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query habits: %w", err)
	}
	defer rows.Close()

	var habits []*models.Habit
	for rows.Next() {
		habit := &models.Habit{}
		err := rows.Scan(
			&habit.ID,
			&habit.UserID,
			&habit.Name,
			&habit.Frequency,
			&habit.CreatedAt,
			&habit.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, habit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating habits: %w", err)
	}

	return habits, nil
}

// Update updates an existing habit
func (r *HabitRepository) Update(ctx context.Context, habit *models.Habit) error {
	query := `
		UPDATE habits
		SET name = $2, frequency = $3, updated_at = $4
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		habit.ID,
		habit.Name,
		habit.Frequency,
		time.Now(),
	).Scan(&habit.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("habit not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}

	return nil
}

// Delete deletes a habit by ID, returning the rows removed. Completions
// go with it via ON DELETE CASCADE.
func (r *HabitRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete habit: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// GetCompletion returns the completion row for a habit and date, or nil when unmarked
func (r *HabitRepository) GetCompletion(ctx context.Context, habitID uuid.UUID, date string) (*models.HabitCompletion, error) {
	completion := &models.HabitCompletion{}
	query := `
		SELECT habit_id, user_id, to_char(completed_on, 'YYYY-MM-DD'), created_at
		FROM habit_completions
		WHERE habit_id = $1 AND completed_on = $2
	`

	err := r.db.QueryRowContext(ctx, query, habitID, date).Scan(
		&completion.HabitID,
		&completion.UserID,
		&completion.CompletedOn,
		&completion.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get habit completion: %w", err)
	}

	return completion, nil
}

// MarkCompletion records a completion for a habit on a date
func (r *HabitRepository) MarkCompletion(ctx context.Context, completion *models.HabitCompletion) error {
	query := `
		INSERT INTO habit_completions (habit_id, user_id, completed_on, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (habit_id, completed_on) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query,
		completion.HabitID,
		completion.UserID,
		completion.CompletedOn,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to mark habit completion: %w", err)
	}

	return nil
}

// UnmarkCompletion removes the completion row for a habit and date
func (r *HabitRepository) UnmarkCompletion(ctx context.Context, habitID uuid.UUID, date string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM habit_completions WHERE habit_id = $1 AND completed_on = $2`,
		habitID, date,
	)
	if err != nil {
		return fmt.Errorf("failed to unmark habit completion: %w", err)
	}

	return nil
}

// GetCompletions retrieves all completions for a habit, newest first
func (r *HabitRepository) GetCompletions(ctx context.Context, habitID uuid.UUID) ([]*models.HabitCompletion, error) {
	query := `
		SELECT habit_id, user_id, to_char(completed_on, 'YYYY-MM-DD'), created_at
		FROM habit_completions
		WHERE habit_id = $1
		ORDER BY completed_on DESC
	`

	rows, err := r.db.QueryContext(ctx, query, habitID)
	if err != nil {
		return nil, fmt.Errorf("failed to query habit completions: %w", err)
	}
	defer rows.Close()

	var completions []*models.HabitCompletion
	for rows.Next() {
		completion := &models.HabitCompletion{}
		err := rows.Scan(
			&completion.HabitID,
			&completion.UserID,
			&completion.CompletedOn,
			&completion.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit completion: %w", err)
		}
		completions = append(completions, completion)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating habit completions: %w", err)
	}

	return completions, nil
}
