package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/graham-fleming/lifehub/internal/models"
)

// TripRepository handles trip, activity and expense database operations
type TripRepository struct {
	db *DB
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *DB) *TripRepository {
	return &TripRepository{db: db}
}

// Create creates a new trip
func (r *TripRepository) Create(ctx context.Context, trip *models.Trip) error {
	query := `
		INSERT INTO trips (id, user_id, destination, start_date, end_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		trip.ID,
		trip.UserID,
		trip.Destination,
		trip.StartDate,
		trip.EndDate,
		trip.Status,
		now,
		now,
	).Scan(&trip.CreatedAt, &trip.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}

	return nil
}

// GetByID retrieves a trip by ID
func (r *TripRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	trip := &models.Trip{}
	query := `
		SELECT id, user_id, destination, start_date, end_date, status, created_at, updated_at
		FROM trips
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&trip.ID,
		&trip.UserID,
		&trip.Destination,
		&trip.StartDate,
		&trip.EndDate,
		&trip.Status,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("trip not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return trip, nil
}

// GetByUserID retrieves all trips for a user, optionally filtered by status
func (r *TripRepository) GetByUserID(ctx context.Context, userID uuid.UUID, status *models.TripStatus) ([]*models.Trip, error) {
	query := `
		SELECT id, user_id, destination, start_date, end_date, status, created_at, updated_at
		FROM trips
		WHERE user_id = $1
	`
	args := []interface{}{userID}

	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}

	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	var trips []*models.Trip
	for rows.Next() {
		trip := &models.Trip{}
		err := rows.Scan(
			&trip.ID,
			&trip.UserID,
			&trip.Destination,
			&trip.StartDate,
			&trip.EndDate,
			&trip.Status,
			&trip.CreatedAt,
			&trip.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trips: %w", err)
	}

	return trips, nil
}

// Update updates an existing trip
func (r *TripRepository) Update(ctx context.Context, trip *models.Trip) error {
	query := `
		UPDATE trips
		SET destination = $2, start_date = $3, end_date = $4, status = $5, updated_at = $6
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		trip.ID,
		trip.Destination,
		trip.StartDate,
		trip.EndDate,
		trip.Status,
		time.Now(),
	).Scan(&trip.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("trip not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}

	return nil
}

// Delete deletes a trip by ID, returning the rows removed. Activities and
// expenses go with it via ON DELETE CASCADE.
func (r *TripRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete trip: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// CreateActivity adds an activity to a trip
func (r *TripRepository) CreateActivity(ctx context.Context, activity *models.TripActivity) error {
	query := `
		INSERT INTO trip_activities (id, trip_id, user_id, name, scheduled_on, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		activity.ID,
		activity.TripID,
		activity.UserID,
		activity.Name,
		activity.ScheduledOn,
		activity.Notes,
		time.Now(),
	).Scan(&activity.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create trip activity: %w", err)
	}

	return nil
}

// GetActivities retrieves all activities for a trip, earliest scheduled first
func (r *TripRepository) GetActivities(ctx context.Context, tripID uuid.UUID) ([]*models.TripActivity, error) {
	query := `
		SELECT id, trip_id, user_id, name, scheduled_on, notes, created_at
		FROM trip_activities
		WHERE trip_id = $1
		ORDER BY scheduled_on ASC NULLS LAST, created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trip activities: %w", err)
	}
	defer rows.Close()

	var activities []*models.TripActivity
	for rows.Next() {
		activity := &models.TripActivity{}
		err := rows.Scan(
			&activity.ID,
			&activity.TripID,
			&activity.UserID,
			&activity.Name,
			&activity.ScheduledOn,
			&activity.Notes,
			&activity.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip activity: %w", err)
		}
		activities = append(activities, activity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trip activities: %w", err)
	}

	return activities, nil
}

// DeleteActivity removes an activity from a trip, returning rows removed
func (r *TripRepository) DeleteActivity(ctx context.Context, tripID, activityID uuid.UUID) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM trip_activities WHERE id = $1 AND trip_id = $2`,
		activityID, tripID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete trip activity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// CreateExpense adds an expense to a trip
func (r *TripRepository) CreateExpense(ctx context.Context, expense *models.TripExpense) error {
	query := `
		INSERT INTO trip_expenses (id, trip_id, user_id, description, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		expense.ID,
		expense.TripID,
		expense.UserID,
		expense.Description,
		expense.Amount,
		time.Now(),
	).Scan(&expense.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create trip expense: %w", err)
	}

	return nil
}

// GetExpenses retrieves all expenses for a trip, newest first
func (r *TripRepository) GetExpenses(ctx context.Context, tripID uuid.UUID) ([]*models.TripExpense, error) {
	query := `
		SELECT id, trip_id, user_id, description, amount, created_at
		FROM trip_expenses
		WHERE trip_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trip expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.TripExpense
	for rows.Next() {
		expense := &models.TripExpense{}
		err := rows.Scan(
			&expense.ID,
			&expense.TripID,
			&expense.UserID,
			&expense.Description,
			&expense.Amount,
			&expense.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip expense: %w", err)
		}
		expenses = append(expenses, expense)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trip expenses: %w", err)
	}

	return expenses, nil
}

// SumExpenses returns the total spent against a trip
func (r *TripRepository) SumExpenses(ctx context.Context, tripID uuid.UUID) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM trip_expenses WHERE trip_id = $1`,
		tripID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum trip expenses: %w", err)
	}

	return total, nil
}

// DeleteExpense removes an expense from a trip, returning rows removed
func (r *TripRepository) DeleteExpense(ctx context.Context, tripID, expenseID uuid.UUID) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM trip_expenses WHERE id = $1 AND trip_id = $2`,
		expenseID, tripID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete trip expense: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
