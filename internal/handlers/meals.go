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

// MealHandler handles meal log requests
type MealHandler struct {
	mealRepo *database.MealRepository
}

// NewMealHandler creates a new meal handler
func NewMealHandler(mealRepo *database.MealRepository) *MealHandler {
	return &MealHandler{mealRepo: mealRepo}
}

// RegisterRoutes registers meal routes on the given router
// The router should already have the /meals prefix
func (h *MealHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListMeals).Methods("GET")
	r.HandleFunc("", h.CreateMeal).Methods("POST")
	r.HandleFunc("/{id}", h.UpdateMeal).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteMeal).Methods("DELETE")
}

// CreateMealRequest represents a create meal request
type CreateMealRequest struct {
	Name     string          `json:"name" validate:"required,min=1,max=200"`
	MealType models.MealType `json:"meal_type" validate:"required,meal_type"`
	Calories *int            `json:"calories,omitempty" validate:"omitempty,gte=0,lte=20000"`
	EatenOn  string          `json:"eaten_on" validate:"omitempty"`
}

// UpdateMealRequest represents an update meal request
type UpdateMealRequest struct {
	Name     *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	MealType *models.MealType `json:"meal_type,omitempty" validate:"omitempty,meal_type"`
	Calories *int             `json:"calories,omitempty" validate:"omitempty,gte=0,lte=20000"`
	EatenOn  *string          `json:"eaten_on,omitempty"`
}

// ListMeals lists meals for the authenticated user. Unauthenticated
// requests are served the demo fixture set.
func (h *MealHandler) ListMeals(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSON(w, http.StatusOK, demo.Meals())
		return
	}

	meals, err := h.mealRepo.GetByUserID(r.Context(), user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve meals")
		return
	}

	respondJSON(w, http.StatusOK, meals)
}

// CreateMeal creates a new meal entry
func (h *MealHandler) CreateMeal(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req CreateMealRequest
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

	eatenOn := time.Now().UTC().Truncate(24 * time.Hour)
	if req.EatenOn != "" {
		parsed, err := parseDate(req.EatenOn)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid eaten_on date, expected YYYY-MM-DD")
			return
		}
		eatenOn = parsed
	}

	meal := &models.Meal{
		ID:       uuid.New(),
		UserID:   user.ID,
		Name:     req.Name,
		MealType: req.MealType,
		Calories: req.Calories,
		EatenOn:  eatenOn,
	}

	if err := h.mealRepo.Create(r.Context(), meal); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create meal")
		return
	}

	respondJSON(w, http.StatusCreated, meal)
}

// UpdateMeal updates an existing meal entry
func (h *MealHandler) UpdateMeal(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid meal ID")
		return
	}

	ctx := r.Context()
	meal, err := h.mealRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Meal not found")
		return
	}

	if meal.UserID != user.ID {
		respondJSONError(w, http.StatusForbidden, "Forbidden", "Meal does not belong to user")
		return
	}

	var req UpdateMealRequest
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
		meal.Name = sanitized
	}
	if req.MealType != nil {
		meal.MealType = *req.MealType
	}
	if req.Calories != nil {
		meal.Calories = req.Calories
	}
	if req.EatenOn != nil {
		parsed, err := parseDate(*req.EatenOn)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid eaten_on date, expected YYYY-MM-DD")
			return
		}
		meal.EatenOn = parsed
	}

	if err := h.mealRepo.Update(ctx, meal); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update meal")
		return
	}

	respondJSON(w, http.StatusOK, meal)
}

// DeleteMeal deletes a meal entry
func (h *MealHandler) DeleteMeal(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid meal ID")
		return
	}

	ctx := r.Context()
	meal, err := h.mealRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Meal not found")
		return
	}

	if meal.UserID != user.ID {
		respondJSONError(w, http.StatusForbidden, "Forbidden", "Meal does not belong to user")
		return
	}

	if _, err := h.mealRepo.Delete(ctx, id); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete meal")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
