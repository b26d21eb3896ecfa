package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/graham-fleming/lifehub/internal/models"
)

// ContactRepository handles contact database operations
type ContactRepository struct {
	db *DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create creates a new contact
func (r *ContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	query := `
		INSERT INTO contacts (id, user_id, name, email, phone, company, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		contact.ID,
		contact.UserID,
		contact.Name,
		contact.Email,
		contact.Phone,
		contact.Company,
		contact.Status,
		contact.Notes,
		now,
		now,
	).Scan(&contact.CreatedAt, &contact.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	return nil
}

// GetByID retrieves a contact by ID
func (r *ContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	contact := &models.Contact{}
	query := `
		SELECT id, user_id, name, email, phone, company, status, notes, created_at, updated_at
		FROM contacts
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&contact.ID,
		&contact.UserID,
		&contact.Name,
		&contact.Email,
		&contact.Phone,
		&contact.Company,
		&contact.Status,
		&contact.Notes,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("contact not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return contact, nil
}

// GetByUserID retrieves all contacts for a user, newest first
func (r *ContactRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Contact, error) {
	query := `
		SELECT id, user_id, name, email, phone, company, status, notes, created_at, updated_at
		FROM contacts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		contact := &models.Contact{}
		err := rows.Scan(
			&contact.ID,
			&contact.UserID,
			&contact.Name,
			&contact.Email,
			&contact.Phone,
			&contact.Company,
			&contact.Status,
			&contact.Notes,
			&contact.CreatedAt,
			&contact.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}

	return contacts, nil
}

// GetByUserIDAndName retrieves a contact by exact name, used by demo seeding
// to cross-reference sample tasks with sample contacts.
func (r *ContactRepository) GetByUserIDAndName(ctx context.Context, userID uuid.UUID, name string) (*models.Contact, error) {
	contact := &models.Contact{}
	query := `
		SELECT id, user_id, name, email, phone, company, status, notes, created_at, updated_at
		FROM contacts
		WHERE user_id = $1 AND name = $2
	`

	err := r.db.QueryRowContext(ctx, query, userID, name).Scan(
		&contact.ID,
		&contact.UserID,
		&contact.Name,
		&contact.Email,
		&contact.Phone,
		&contact.Company,
		&contact.Status,
		&contact.Notes,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("contact not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return contact, nil
}

// CountByUserID returns how many contacts the user owns
func (r *ContactRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}

// Update updates an existing contact
func (r *ContactRepository) Update(ctx context.Context, contact *models.Contact) error {
	query := `
		UPDATE contacts
		SET name = $2, email = $3, phone = $4, company = $5, status = $6, notes = $7, updated_at = $8
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		contact.ID,
		contact.Name,
		contact.Email,
		contact.Phone,
		contact.Company,
		contact.Status,
		contact.Notes,
		time.Now(),
	).Scan(&contact.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("contact not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	return nil
}

// Delete deletes a contact by ID. Returns the number of rows removed;
// deleting a missing contact is not an error.
func (r *ContactRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete contact: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
