package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/graham-fleming/lifehub/internal/models"
)

// BudgetRepository handles budget database operations. Budgets are keyed
// by the natural composite key (user_id, category, month); there is no
// surrogate-id update path.
type BudgetRepository struct {
	db *DB
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(db *DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

// Upsert inserts a budget or replaces the amount when the composite key exists
func (r *BudgetRepository) Upsert(ctx context.Context, budget *models.Budget) error {
	query := `
		INSERT INTO budgets (user_id, category, month, amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, category, month) DO UPDATE
		SET amount = EXCLUDED.amount,
		    updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		budget.UserID,
		budget.Category,
		budget.Month,
		budget.Amount,
		now,
		now,
	).Scan(&budget.CreatedAt, &budget.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert budget: %w", err)
	}

	return nil
}

// Delete removes a budget by its natural key, returning the rows removed
func (r *BudgetRepository) Delete(ctx context.Context, userID uuid.UUID, category, month string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE user_id = $1 AND category = $2 AND month = $3`,
		userID, category, month,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete budget: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// GetByUserID retrieves all budgets for a user, optionally limited to one month
func (r *BudgetRepository) GetByUserID(ctx context.Context, userID uuid.UUID, month *string) ([]*models.Budget, error) {
	query := `
		SELECT user_id, category, month, amount, created_at, updated_at
		FROM budgets
		WHERE user_id = $1
	`
	args := []any{userID}

	if month != nil {
		query += ` AND month = $2`
		args = append(args, *month)
	}

	query += ` ORDER BY month DESC, category`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*models.Budget
	for rows.Next() {
		budget := &models.Budget{}
		err := rows.Scan(
			&budget.UserID,
			&budget.Category,
			&budget.Month,
			&budget.Amount,
			&budget.CreatedAt,
			&budget.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, budget)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}

	return budgets, nil
}

// SpentByCategory sums transaction amounts per category for a month
// ("YYYY-MM"), for budget-versus-actual views.
func (r *BudgetRepository) SpentByCategory(ctx context.Context, userID uuid.UUID, month string) (map[string]float64, error) {
	query := `
		SELECT category, COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND to_char(occurred_on, 'YYYY-MM') = $2
		GROUP BY category
	`

	rows, err := r.db.QueryContext(ctx, query, userID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to query spend by category: %w", err)
	}
	defer rows.Close()

	spent := make(map[string]float64)
	for rows.Next() {
		var category string
		var total float64
		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("failed to scan spend row: %w", err)
		}
		spent[category] = total
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating spend rows: %w", err)
	}

	return spent, nil
}
