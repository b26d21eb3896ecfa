package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactStatus represents the relationship stage of a contact
type ContactStatus string

const (
	ContactStatusLead     ContactStatus = "lead"
	ContactStatusClient   ContactStatus = "client"
	ContactStatusPartner  ContactStatus = "partner"
	ContactStatusArchived ContactStatus = "archived"
)

// Contact represents a CRM contact
type Contact struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	Name      string        `json:"name"`
	Email     *string       `json:"email,omitempty"`
	Phone     *string       `json:"phone,omitempty"`
	Company   *string       `json:"company,omitempty"`
	Status    ContactStatus `json:"status"`
	Notes     *string       `json:"notes,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
