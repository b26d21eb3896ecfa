package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/graham-fleming/lifehub/internal/database"
	"github.com/graham-fleming/lifehub/internal/demo"
	"github.com/graham-fleming/lifehub/internal/middleware"
	"github.com/graham-fleming/lifehub/internal/models"
	"github.com/graham-fleming/lifehub/internal/validation"
)

// ContactHandler handles CRM contact requests
type ContactHandler struct {
	contactRepo *database.ContactRepository
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactRepo *database.ContactRepository) *ContactHandler {
	return &ContactHandler{contactRepo: contactRepo}
}

// RegisterRoutes registers contact routes on the given router
// The router should already have the /contacts prefix
func (h *ContactHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListContacts).Methods("GET")
	r.HandleFunc("", h.CreateContact).Methods("POST")
	r.HandleFunc("/{id}", h.UpdateContact).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteContact).Methods("DELETE")
}

// CreateContactRequest represents a create contact request
type CreateContactRequest struct {
	Name    string                `json:"name" validate:"required,min=1,max=200"`
	Email   *string               `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string               `json:"phone,omitempty" validate:"omitempty,max=50"`
	Company *string               `json:"company,omitempty" validate:"omitempty,max=200"`
	Status  *models.ContactStatus `json:"status,omitempty" validate:"omitempty,contact_status"`
	Notes   *string               `json:"notes,omitempty" validate:"omitempty,max=10000"`
}

// UpdateContactRequest represents an update contact request
type UpdateContactRequest struct {
	Name    *string               `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Email   *string               `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string               `json:"phone,omitempty" validate:"omitempty,max=50"`
	Company *string               `json:"company,omitempty" validate:"omitempty,max=200"`
	Status  *models.ContactStatus `json:"status,omitempty" validate:"omitempty,contact_status"`
	Notes   *string               `json:"notes,omitempty" validate:"omitempty,max=10000"`
}

// ListContacts lists contacts for the authenticated user. Unauthenticated
// requests are served the demo fixture set.
func (h *ContactHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSON(w, http.StatusOK, demo.Contacts())
		return
	}

	contacts, err := h.contactRepo.GetByUserID(r.Context(), user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve contacts")
		return
	}

	respondJSON(w, http.StatusOK, contacts)
}

// CreateContact creates a new contact
func (h *ContactHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req CreateContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	req.Name = validation.SanitizeText(req.Name)
	if req.Name == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Name is required and cannot be empty after sanitization")
		return
	}

	status := models.ContactStatusLead
	if req.Status != nil {
		status = *req.Status
	}

	contact := &models.Contact{
		ID:      uuid.New(),
		UserID:  user.ID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Status:  status,
		Notes:   req.Notes,
	}

	if err := h.contactRepo.Create(r.Context(), contact); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create contact")
		return
	}

	respondJSON(w, http.StatusCreated, contact)
}

// UpdateContact updates an existing contact
func (h *ContactHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid contact ID")
		return
	}

	ctx := r.Context()
	contact, err := h.contactRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Contact not found")
		return
	}

	if contact.UserID != user.ID {
		respondJSONError(w, http.StatusForbidden, "Forbidden", "Contact does not belong to user")
		return
	}

	var req UpdateContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	if req.Name != nil {
		sanitized := validation.SanitizeText(*req.Name)
		if sanitized == "" {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Name cannot be empty after sanitization")
			return
		}
		contact.Name = sanitized
	}
	if req.Email != nil {
		contact.Email = req.Email
	}
	if req.Phone != nil {
		contact.Phone = req.Phone
	}
	if req.Company != nil {
		contact.Company = req.Company
	}
	if req.Status != nil {
		contact.Status = *req.Status
	}
	if req.Notes != nil {
		contact.Notes = req.Notes
	}

	if err := h.contactRepo.Update(ctx, contact); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update contact")
		return
	}

	respondJSON(w, http.StatusOK, contact)
}

// DeleteContact deletes a contact
func (h *ContactHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid contact ID")
		return
	}

	ctx := r.Context()
	contact, err := h.contactRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Contact not found")
		return
	}

	if contact.UserID != user.ID {
		respondJSONError(w, http.StatusForbidden, "Forbidden", "Contact does not belong to user")
		return
	}

	if _, err := h.contactRepo.Delete(ctx, id); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete contact")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
