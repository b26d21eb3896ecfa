package handlers

import (
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

// FitnessHandler handles workout requests
type FitnessHandler struct {
	workoutRepo *database.WorkoutRepository
}

// NewFitnessHandler creates a new fitness handler
func NewFitnessHandler(workoutRepo *database.WorkoutRepository) *FitnessHandler {
	return &FitnessHandler{workoutRepo: workoutRepo}
}

// RegisterRoutes registers fitness routes on the given router
// The router should already have the /fitness prefix
func (h *FitnessHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/workouts", h.ListWorkouts).Methods("GET")
	r.HandleFunc("/workouts", h.CreateWorkout).Methods("POST")
	r.HandleFunc("/workouts/{id}", h.UpdateWorkout).Methods("PATCH")
	r.HandleFunc("/workouts/{id}", h.DeleteWorkout).Methods("DELETE")
}

// CreateWorkoutRequest represents a create workout request
type CreateWorkoutRequest struct {
	Name            string  `json:"name" validate:"required,min=1,max=200"`
	Activity        string  `json:"activity" validate:"required,min=1,max=100"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,gt=0,lte=1440"`
	OccurredOn      string  `json:"occurred_on" validate:"omitempty"`
	Notes           *string `json:"notes,omitempty" validate:"omitempty,max=10000"`
}

// UpdateWorkoutRequest represents an update workout request
type UpdateWorkoutRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Activity        *string `json:"activity,omitempty" validate:"omitempty,min=1,max=100"`
	DurationMinutes *int    `json:"duration_minutes,omitempty" validate:"omitempty,gt=0,lte=1440"`
	OccurredOn      *string `json:"occurred_on,omitempty"`
	Notes           *string `json:"notes,omitempty" validate:"omitempty,max=10000"`
}

// ListWorkouts lists workouts for the authenticated user. Unauthenticated
// requests are served the demo fixture set.
func (h *FitnessHandler) ListWorkouts(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSON(w, http.StatusOK, demo.Workouts())
		return
	}

	workouts, err := h.workoutRepo.GetByUserID(r.Context(), user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve workouts")
		return
	}

	respondJSON(w, http.StatusOK, workouts)
}

// CreateWorkout creates a new workout
func (h *FitnessHandler) CreateWorkout(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req CreateWorkoutRequest
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

	occurredOn := time.Now().UTC().Truncate(24 * time.Hour)
	if req.OccurredOn != "" {
		parsed, err := parseDate(req.OccurredOn)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid occurred_on date, expected YYYY-MM-DD")
			return
		}
		occurredOn = parsed
	}

	workout := &models.Workout{
		ID:              uuid.New(),
		UserID:          user.ID,
		Name:            req.Name,
		Activity:        validation.SanitizeText(req.Activity),
		DurationMinutes: req.DurationMinutes,
		OccurredOn:      occurredOn,
		Notes:           req.Notes,
	}

	if err := h.workoutRepo.Create(r.Context(), workout); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create workout")
		return
	}

	respondJSON(w, http.StatusCreated, workout)
}

// UpdateWorkout updates an existing workout
func (h *FitnessHandler) UpdateWorkout(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid workout ID")
		return
	}

	ctx := r.Context()
	workout, err := h.workoutRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Workout not found")
		return
	}

	if workout.UserID != user.ID {
		respondJSONError(w, http.StatusForbidden, "Forbidden", "Workout does not belong to user")
		return
	}

	var req UpdateWorkoutRequest
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
		workout.Name = sanitized
	}
	if req.Activity != nil {
		sanitized := validation.SanitizeText(*req.Activity)
		if sanitized == "" {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Activity cannot be empty after sanitization")
			return
		}
		workout.Activity = sanitized
	}
	if req.DurationMinutes != nil {
		workout.DurationMinutes = *req.DurationMinutes
	}
	if req.OccurredOn != nil {
		parsed, err := parseDate(*req.OccurredOn)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid occurred_on date, expected YYYY-MM-DD")
			return
		}
		workout.OccurredOn = parsed
	}
	if req.Notes != nil {
		workout.Notes = req.Notes
	}

	if err := h.workoutRepo.Update(ctx, workout); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update workout")
		return
	}

	respondJSON(w, http.StatusOK, workout)
}

// DeleteWorkout deletes a workout
func (h *FitnessHandler) DeleteWorkout(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid workout ID")
		return
	}

	ctx := r.Context()
	workout, err := h.workoutRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Workout not found")
		return
	}

	if workout.UserID != user.ID {
		respondJSONError(w, http.StatusForbidden, "Forbidden", "Workout does not belong to user")
		return
	}

	if _, err := h.workoutRepo.Delete(ctx, id); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete workout")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
