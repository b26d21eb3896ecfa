package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/graham-fleming/lifehub/internal/models"
)

// TransactionRepository handles transaction database operations
type TransactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create creates a new transaction
func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, description, amount, category, occurred_on, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		tx.ID,
		tx.UserID,
		tx.Description,
		tx.Amount,
		tx.Category,
		tx.OccurredOn,
		now,
		now,
	).Scan(&tx.CreatedAt, &tx.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a transaction by ID
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	tx := &models.Transaction{}
	query := `
		SELECT id, user_id, description, amount, category, occurred_on, created_at, updated_at
		FROM transactions
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&tx.ID,
		&tx.UserID,
		&tx.Description,
		&tx.Amount,
		&tx.Category,
		&tx.OccurredOn,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return tx, nil
}

// GetByUserID retrieves all transactions for a user, optionally filtered by category
func (r *TransactionRepository) GetByUserID(ctx context.Context, userID uuid.UUID, category *string) ([]*models.Transaction, error) {
	query := `
		SELECT id, user_id, description, amount, category, occurred_on, created_at, updated_at
		FROM transactions
		WHERE user_id = $1
	`
	args := []any{userID}

	if category != nil {
		query += ` AND category = $2`
		args = append(args, *category)
	}

	query += ` ORDER BY occurred_on DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []*models.Transaction
	for rows.Next() {
		tx := &models.Transaction{}
		err := rows.Scan(
			&tx.ID,
			&tx.UserID,
			&tx.Description,
			&tx.Amount,
			&tx.Category,
			&tx.OccurredOn,
			&tx.CreatedAt,
			&tx.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txs, nil
}

// Update updates an existing transaction
func (r *TransactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	query := `
		UPDATE transactions
		SET description = $2, amount = $3, category = $4, occurred_on = $5, updated_at = $6
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		tx.ID,
		tx.Description,
		tx.Amount,
		tx.Category,
		tx.OccurredOn,
		time.Now(),
	).Scan(&tx.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("transaction not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	return nil
}

// Delete deletes a transaction by ID, returning the rows removed
func (r *TransactionRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete transaction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
