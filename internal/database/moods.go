package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/graham-fleming/lifehub/internal/models"
)

// MoodRepository handles mood entry database operations
type MoodRepository struct {
	db *DB
}

// NewMoodRepository creates a new mood repository
func NewMoodRepository(db *DB) *MoodRepository {
	return &MoodRepository{db: db}
}

// Upsert writes the mood entry for a user and date. A second write for
// the same date replaces the earlier one.
func (r *MoodRepository) Upsert(ctx context.Context, entry *models.MoodEntry) error {
	query := `
		INSERT INTO mood_entries (user_id, entry_date, mood, energy, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (user_id, entry_date)
		DO UPDATE SET mood = EXCLUDED.mood, energy = EXCLUDED.energy, notes = EXCLUDED.notes, updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		entry.UserID,
		entry.EntryDate,
		entry.Mood,
		entry.Energy,
		entry.Notes,
		time.Now(),
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert mood entry: %w", err)
	}

	return nil
}

// GetByUserID retrieves mood entries for a user, newest date first
func (r *MoodRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.MoodEntry, error) {
	query := `
		SELECT user_id, to_char(entry_date, 'YYYY-MM-DD'), mood, energy, notes, created_at, updated_at
		FROM mood_entries
		WHERE user_id = $1
		ORDER BY entry_date DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query mood entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.MoodEntry
	for rows.Next() {
		entry := &models.MoodEntry{}
		err := rows.Scan(
			&entry.UserID,
			&entry.EntryDate,
			&entry.Mood,
			&entry.Energy,
			&entry.Notes,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mood entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mood entries: %w", err)
	}

	return entries, nil
}

// Delete removes the mood entry for a user and date, returning rows removed
func (r *MoodRepository) Delete(ctx context.Context, userID uuid.UUID, date string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM mood_entries WHERE user_id = $1 AND entry_date = $2`,
		userID, date,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete mood entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
