package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/graham-fleming/lifehub/internal/models"
)

// SavedItemRepository handles saved item database operations, including
// vector similarity search
type SavedItemRepository struct {
	db *DB
}

// NewSavedItemRepository creates a new saved item repository
func NewSavedItemRepository(db *DB) *SavedItemRepository {
	return &SavedItemRepository{db: db}
}

// Create persists a classified item together with its embedding
func (r *SavedItemRepository) Create(ctx context.Context, item *models.SavedItem, embedding []float32) error {
	metadata, err := json.Marshal(item.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		INSERT INTO saved_items (id, user_id, raw_text, title, summary, category, tags, metadata, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`

	err = r.db.QueryRowContext(ctx, query,
		item.ID,
		item.UserID,
		item.RawText,
		item.Title,
		item.Summary,
		item.Category,
		pq.Array(item.Tags),
		metadata,
		pgvector.NewVector(embedding),
		time.Now(),
	).Scan(&item.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create saved item: %w", err)
	}

	return nil
}

// GetByID retrieves a saved item by ID (without its embedding)
func (r *SavedItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SavedItem, error) {
	item := &models.SavedItem{}
	var metadata []byte
	query := `
		SELECT id, user_id, raw_text, title, summary, category, tags, metadata, created_at
		FROM saved_items
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.UserID,
		&item.RawText,
		&item.Title,
		&item.Summary,
		&item.Category,
		pq.Array(&item.Tags),
		&metadata,
		&item.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("saved item not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get saved item: %w", err)
	}

	if err := json.Unmarshal(metadata, &item.Metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	return item, nil
}

// GetByUserID retrieves a user's saved items, newest first, optionally
// filtered by category
func (r *SavedItemRepository) GetByUserID(ctx context.Context, userID uuid.UUID, category *models.SaverCategory) ([]*models.SavedItem, error) {
	query := `
		SELECT id, user_id, raw_text, title, summary, category, tags, metadata, created_at
		FROM saved_items
		WHERE user_id = $1
	`
	args := []interface{}{userID}

	if category != nil {
		query += ` AND category = $2`
		args = append(args, *category)
	}

	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved items: %w", err)
	}
	defer rows.Close()

	var items []*models.SavedItem
	for rows.Next() {
		item := &models.SavedItem{}
		var metadata []byte
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.RawText,
			&item.Title,
			&item.Summary,
			&item.Category,
			pq.Array(&item.Tags),
			&metadata,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan saved item: %w", err)
		}
		if err := json.Unmarshal(metadata, &item.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saved items: %w", err)
	}

	return items, nil
}

// SearchSimilar returns up to limit items of the user whose cosine
// similarity against the query embedding is at least threshold, most
// similar first.
func (r *SavedItemRepository) SearchSimilar(ctx context.Context, userID uuid.UUID, embedding []float32, limit int, threshold float64) ([]*models.SavedItem, error) {
	query := `
		SELECT id, user_id, raw_text, title, summary, category, tags, metadata, created_at,
			1 - (embedding <=> $2) AS similarity
		FROM saved_items
		WHERE user_id = $1 AND 1 - (embedding <=> $2) >= $3
		ORDER BY embedding <=> $2
		LIMIT $4
	`

	rows, err := r.db.QueryContext(ctx, query, userID, pgvector.NewVector(embedding), threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search saved items: %w", err)
	}
	defer rows.Close()

	var items []*models.SavedItem
	for rows.Next() {
		item := &models.SavedItem{}
		var metadata []byte
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.RawText,
			&item.Title,
			&item.Summary,
			&item.Category,
			pq.Array(&item.Tags),
			&metadata,
			&item.CreatedAt,
			&item.Similarity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan saved item: %w", err)
		}
		if err := json.Unmarshal(metadata, &item.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saved items: %w", err)
	}

	return items, nil
}

// Delete deletes a saved item by ID, returning the rows removed
func (r *SavedItemRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM saved_items WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete saved item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// ListIDsByUserID returns the IDs of every saved item a user owns. Used by
// the re-embedding worker to walk a user's corpus without loading vectors.
func (r *SavedItemRepository) ListIDsByUserID(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM saved_items WHERE user_id = $1 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved item ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan saved item id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saved item ids: %w", err)
	}

	return ids, nil
}

// UpdateEmbedding replaces the stored vector for an item
func (r *SavedItemRepository) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE saved_items SET embedding = $2 WHERE id = $1`,
		id, pgvector.NewVector(embedding),
	)
	if err != nil {
		return fmt.Errorf("failed to update embedding: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("saved item not found")
	}

	return nil
}
