package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/graham-fleming/lifehub/internal/database"
	"github.com/graham-fleming/lifehub/internal/demo"
	"github.com/graham-fleming/lifehub/internal/middleware"
	"github.com/graham-fleming/lifehub/internal/models"
	"github.com/graham-fleming/lifehub/internal/validation"
)

// HabitHandler handles habit and habit completion requests
type HabitHandler struct {
	habitRepo *database.HabitRepository
}

// NewHabitHandler creates a new habit handler
func NewHabitHandler(habitRepo *database.HabitRepository) *HabitHandler {
	return &HabitHandler{habitRepo: habitRepo}
}

// RegisterRoutes registers habit routes on the given router
// The router should already have the /habits prefix
func (h *HabitHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListHabits).Methods("GET")
	r.HandleFunc("", h.CreateHabit).Methods("POST")
	r.HandleFunc("/{id}", h.UpdateHabit).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteHabit).Methods("DELETE")
	r.HandleFunc("/{id}/toggle", h.ToggleCompletion).Methods("POST")
	r.HandleFunc("/{id}/completions", h.ListCompletions).Methods("GET")
}

// CreateHabitRequest represents a create habit request
type CreateHabitRequest struct {
	Name      string                `json:"name" validate:"required,min=1,max=200"`
	Frequency models.HabitFrequency `json:"frequency" validate:"required,habit_frequency"`
}

// UpdateHabitRequest represents an update habit request
type UpdateHabitRequest struct {
	Name      *string                `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Frequency *models.HabitFrequency `json:"frequency,omitempty" validate:"omitempty,habit_frequency"`
}

// ToggleCompletionRequest represents a habit toggle request. Date
// defaults to today when omitted.
type ToggleCompletionRequest struct {
	Date string `json:"date" validate:"omitempty"`
}

// ToggleCompletionResponse reports the completion state after a toggle
type ToggleCompletionResponse struct {
	HabitID   uuid.UUID `json:"habit_id"`
	Date      string    `json:"date"`
	Completed bool      `json:"completed"`
}

// ListHabits lists habits for the authenticated user. Unauthenticated
// requests are served the demo fixture set.
func (h *HabitHandler) ListHabits(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSON(w, http.StatusOK, demo.Habits())
		return
	}

	habits, err := h.habitRepo.GetByUserID(r.Context(), user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve habits")
		return
	}

	respondJSON(w, http.StatusOK, habits)
}

// CreateHabit creates a new habit
func (h *HabitHandler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req CreateHabitRequest
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

	habit := &models.Habit{
		ID:        uuid.New(),
		UserID:    user.ID,
		Name:      req.Name,
		Frequency: req.Frequency,
	}

	if err := h.habitRepo.Create(r.Context(), habit); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create habit")
		return
	}

	respondJSON(w, http.StatusCreated, habit)
}

// UpdateHabit updates an existing habit
func (h *HabitHandler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	habit, ok := h.ownedHabit(w, r)
	if !ok {
		return
	}

	var req UpdateHabitRequest
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
		habit.Name = sanitized
	}
	if req.Frequency != nil {
		habit.Frequency = *req.Frequency
	}

	if err := h.habitRepo.Update(r.Context(), habit); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update habit")
		return
	}

	respondJSON(w, http.StatusOK, habit)
}

// DeleteHabit deletes a habit
func (h *HabitHandler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	habit, ok := h.ownedHabit(w, r)
	if !ok {
		return
	}

	if _, err := h.habitRepo.Delete(r.Context(), habit.ID); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete habit")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleCompletion flips the completion state of a habit for a given day.
// A marked day becomes unmarked and vice versa.
func (h *HabitHandler) ToggleCompletion(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	habit, ok := h.ownedHabit(w, r)
	if !ok {
		return
	}

	// Body is optional; an absent body toggles today.
	var req ToggleCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	date := time.Now().UTC().Format("2006-01-02")
	if req.Date != "" {
		if _, err := parseDate(req.Date); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid date, expected YYYY-MM-DD")
			return
		}
		date = req.Date
	}

	ctx := r.Context()
	existing, err := h.habitRepo.GetCompletion(ctx, habit.ID, date)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to check completion")
		return
	}

	if existing != nil {
		if err := h.habitRepo.UnmarkCompletion(ctx, habit.ID, date); err != nil {
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to unmark completion")
			return
		}
		respondJSON(w, http.StatusOK, ToggleCompletionResponse{HabitID: habit.ID, Date: date, Completed: false})
		return
	}

	completion := &models.HabitCompletion{
		HabitID:     habit.ID,
		UserID:      user.ID,
		CompletedOn: date,
	}
	if err := h.habitRepo.MarkCompletion(ctx, completion); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to mark completion")
		return
	}

	respondJSON(w, http.StatusOK, ToggleCompletionResponse{HabitID: habit.ID, Date: date, Completed: true})
}

// ListCompletions lists completion days for a habit, most recent first
func (h *HabitHandler) ListCompletions(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	habit, ok := h.ownedHabit(w, r)
	if !ok {
		return
	}

	completions, err := h.habitRepo.GetCompletions(r.Context(), habit.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve completions")
		return
	}

	respondJSON(w, http.StatusOK, completions)
}

// ownedHabit resolves the {id} path variable to a habit owned by the
// request user, writing the error response itself on failure.
func (h *HabitHandler) ownedHabit(w http.ResponseWriter, r *http.Request) (*models.Habit, bool) {
	user := middleware.UserFromContext(r)

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid habit ID")
		return nil, false
	}

	habit, err := h.habitRepo.GetByID(r.Context(), id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Habit not found")
		return nil, false
	}

	if habit.UserID != user.ID {
		respondJSONError(w, http.StatusForbidden, "Forbidden", "Habit does not belong to user")
		return nil, false
	}

	return habit, true
}
