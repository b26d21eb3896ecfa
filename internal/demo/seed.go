package demo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/graham-fleming/lifehub/internal/database"
	"github.com/graham-fleming/lifehub/internal/models"
)

// ErrAlreadySeeded is returned when the account already holds contacts
var ErrAlreadySeeded = fmt.Errorf("account already has data")

// Seeder copies starter records into a fresh account
type Seeder struct {
	contacts *database.ContactRepository
	tasks    *database.TaskRepository
	logger   *zap.Logger
}

// NewSeeder creates a new account seeder
func NewSeeder(contacts *database.ContactRepository, tasks *database.TaskRepository, logger *zap.Logger) *Seeder {
	return &Seeder{contacts: contacts, tasks: tasks, logger: logger}
}

// Seed inserts sample contacts and tasks for the user. It refuses to run
// against an account that already has contacts, so a double call cannot
// duplicate the starter data. Inserts are sequential; a failure partway
// leaves the earlier rows in place.
func (s *Seeder) Seed(ctx context.Context, userID uuid.UUID) error {
	count, err := s.contacts.CountByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check existing data: %w", err)
	}
	if count > 0 {
		return ErrAlreadySeeded
	}

	for _, fixture := range Contacts() {
		contact := &models.Contact{
			ID:      uuid.New(),
			UserID:  userID,
			Name:    fixture.Name,
			Email:   fixture.Email,
			Phone:   fixture.Phone,
			Company: fixture.Company,
			Status:  fixture.Status,
			Notes:   fixture.Notes,
		}
		if err := s.contacts.Create(ctx, contact); err != nil {
			return fmt.Errorf("failed to seed contact: %w", err)
		}
	}

	for _, fixture := range Tasks() {
		task := &models.Task{
			ID:      uuid.New(),
			UserID:  userID,
			Title:   fixture.Title,
			Status:  fixture.Status,
			DueDate: fixture.DueDate,
		}
		// Re-link tasks to the freshly inserted contacts by name, since
		// the fixture IDs belong to the guest dataset.
		if fixture.ContactID != nil {
			if name := contactNameForFixtureID(*fixture.ContactID); name != "" {
				if contact, err := s.contacts.GetByUserIDAndName(ctx, userID, name); err == nil {
					task.ContactID = &contact.ID
				}
			}
		}
		if err := s.tasks.Create(ctx, task); err != nil {
			return fmt.Errorf("failed to seed task: %w", err)
		}
	}

	s.logger.Info("account_seeded", zap.String("user_id", userID.String()))
	return nil
}

func contactNameForFixtureID(id uuid.UUID) string {
	for _, c := range Contacts() {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}
