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

// TravelHandler handles trip, trip activity, and trip expense requests
type TravelHandler struct {
	tripRepo *database.TripRepository
}

// NewTravelHandler creates a new travel handler
func NewTravelHandler(tripRepo *database.TripRepository) *TravelHandler {
	return &TravelHandler{tripRepo: tripRepo}
}

// RegisterRoutes registers travel routes on the given router
// The router should already have the /travel prefix
func (h *TravelHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/trips", h.ListTrips).Methods("GET")
	r.HandleFunc("/trips", h.CreateTrip).Methods("POST")
	r.HandleFunc("/trips/{id}", h.UpdateTrip).Methods("PATCH")
	r.HandleFunc("/trips/{id}", h.DeleteTrip).Methods("DELETE")
	r.HandleFunc("/trips/{id}/activities", h.ListActivities).Methods("GET")
	r.HandleFunc("/trips/{id}/activities", h.CreateActivity).Methods("POST")
	r.HandleFunc("/trips/{id}/activities/{aid}", h.DeleteActivity).Methods("DELETE")
	r.HandleFunc("/trips/{id}/expenses", h.ListExpenses).Methods("GET")
	r.HandleFunc("/trips/{id}/expenses", h.CreateExpense).Methods("POST")
	r.HandleFunc("/trips/{id}/expenses/{eid}", h.DeleteExpense).Methods("DELETE")
}

// CreateTripRequest represents a create trip request
type CreateTripRequest struct {
	Destination string             `json:"destination" validate:"required,min=1,max=200"`
	StartDate   *string            `json:"start_date,omitempty"`
	EndDate     *string            `json:"end_date,omitempty"`
	Status      *models.TripStatus `json:"status,omitempty" validate:"omitempty,trip_status"`
}

// UpdateTripRequest represents an update trip request
type UpdateTripRequest struct {
	Destination *string            `json:"destination,omitempty" validate:"omitempty,min=1,max=200"`
	StartDate   *string            `json:"start_date,omitempty"`
	EndDate     *string            `json:"end_date,omitempty"`
	Status      *models.TripStatus `json:"status,omitempty" validate:"omitempty,trip_status"`
}

// CreateActivityRequest represents a create trip activity request
type CreateActivityRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	ScheduledOn *string `json:"scheduled_on,omitempty"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=10000"`
}

// CreateExpenseRequest represents a create trip expense request
type CreateExpenseRequest struct {
	Description string  `json:"description" validate:"required,min=1,max=500"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
}

// ListExpensesResponse pairs trip expenses with their running total
type ListExpensesResponse struct {
	Expenses []*models.TripExpense `json:"expenses"`
	Total    float64               `json:"total"`
}

// ListTrips lists trips, optionally filtered by status. Unauthenticated
// requests are served the demo fixture set.
func (h *TravelHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSON(w, http.StatusOK, demo.Trips())
		return
	}

	var status *models.TripStatus
	if s := r.URL.Query().Get("status"); s != "" {
		if err := validation.ValidateTripStatus(s); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		sEnum := models.TripStatus(s)
		status = &sEnum
	}

	trips, err := h.tripRepo.GetByUserID(r.Context(), user.ID, status)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve trips")
		return
	}

	respondJSON(w, http.StatusOK, trips)
}

// CreateTrip creates a new trip
func (h *TravelHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req CreateTripRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	req.Destination = validation.SanitizeText(req.Destination)
	if req.Destination == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Destination is required and cannot be empty after sanitization")
		return
	}

	startDate, ok := parseOptionalDate(w, req.StartDate, "start_date")
	if !ok {
		return
	}
	endDate, ok := parseOptionalDate(w, req.EndDate, "end_date")
	if !ok {
		return
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "end_date cannot be before start_date")
		return
	}

	status := models.TripStatusPlanning
	if req.Status != nil {
		status = *req.Status
	}

	trip := &models.Trip{
		ID:          uuid.New(),
		UserID:      user.ID,
		Destination: req.Destination,
		StartDate:   startDate,
		EndDate:     endDate,
		Status:      status,
	}

	if err := h.tripRepo.Create(r.Context(), trip); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create trip")
		return
	}

	respondJSON(w, http.StatusCreated, trip)
}

// UpdateTrip updates an existing trip
func (h *TravelHandler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	trip, ok := h.ownedTrip(w, r)
	if !ok {
		return
	}

	var req UpdateTripRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	if req.Destination != nil {
		sanitized := validation.SanitizeText(*req.Destination)
		if sanitized == "" {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Destination cannot be empty after sanitization")
			return
		}
		trip.Destination = sanitized
	}
	if req.StartDate != nil {
		parsed, ok := parseOptionalDate(w, req.StartDate, "start_date")
		if !ok {
			return
		}
		trip.StartDate = parsed
	}
	if req.EndDate != nil {
		parsed, ok := parseOptionalDate(w, req.EndDate, "end_date")
		if !ok {
			return
		}
		trip.EndDate = parsed
	}
	if trip.StartDate != nil && trip.EndDate != nil && trip.EndDate.Before(*trip.StartDate) {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "end_date cannot be before start_date")
		return
	}
	if req.Status != nil {
		trip.Status = *req.Status
	}

	if err := h.tripRepo.Update(r.Context(), trip); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update trip")
		return
	}

	respondJSON(w, http.StatusOK, trip)
}

// DeleteTrip deletes a trip along with its activities and expenses
func (h *TravelHandler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	trip, ok := h.ownedTrip(w, r)
	if !ok {
		return
	}

	if _, err := h.tripRepo.Delete(r.Context(), trip.ID); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete trip")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListActivities lists activities for a trip
func (h *TravelHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	trip, ok := h.ownedTrip(w, r)
	if !ok {
		return
	}

	activities, err := h.tripRepo.GetActivities(r.Context(), trip.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve activities")
		return
	}

	respondJSON(w, http.StatusOK, activities)
}

// CreateActivity adds an activity to a trip
func (h *TravelHandler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	trip, ok := h.ownedTrip(w, r)
	if !ok {
		return
	}

	var req CreateActivityRequest
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

	scheduledOn, ok := parseOptionalDate(w, req.ScheduledOn, "scheduled_on")
	if !ok {
		return
	}

	activity := &models.TripActivity{
		ID:          uuid.New(),
		TripID:      trip.ID,
		UserID:      user.ID,
		Name:        req.Name,
		ScheduledOn: scheduledOn,
		Notes:       req.Notes,
	}

	if err := h.tripRepo.CreateActivity(r.Context(), activity); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create activity")
		return
	}

	respondJSON(w, http.StatusCreated, activity)
}

// DeleteActivity removes an activity from a trip
func (h *TravelHandler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	trip, ok := h.ownedTrip(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	activityID, err := uuid.Parse(vars["aid"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid activity ID")
		return
	}

	affected, err := h.tripRepo.DeleteActivity(r.Context(), trip.ID, activityID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete activity")
		return
	}
	if affected == 0 {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Activity not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListExpenses lists expenses for a trip along with their total
func (h *TravelHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	trip, ok := h.ownedTrip(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	expenses, err := h.tripRepo.GetExpenses(ctx, trip.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve expenses")
		return
	}

	total, err := h.tripRepo.SumExpenses(ctx, trip.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to total expenses")
		return
	}

	respondJSON(w, http.StatusOK, ListExpensesResponse{Expenses: expenses, Total: total})
}

// CreateExpense adds an expense to a trip
func (h *TravelHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	trip, ok := h.ownedTrip(w, r)
	if !ok {
		return
	}

	var req CreateExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	req.Description = validation.SanitizeText(req.Description)
	if req.Description == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Description is required and cannot be empty after sanitization")
		return
	}

	expense := &models.TripExpense{
		ID:          uuid.New(),
		TripID:      trip.ID,
		UserID:      user.ID,
		Description: req.Description,
		Amount:      req.Amount,
	}

	if err := h.tripRepo.CreateExpense(r.Context(), expense); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create expense")
		return
	}

	respondJSON(w, http.StatusCreated, expense)
}

// DeleteExpense removes an expense from a trip
func (h *TravelHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	trip, ok := h.ownedTrip(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	expenseID, err := uuid.Parse(vars["eid"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid expense ID")
		return
	}

	affected, err := h.tripRepo.DeleteExpense(r.Context(), trip.ID, expenseID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete expense")
		return
	}
	if affected == 0 {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Expense not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ownedTrip resolves the {id} path variable to a trip owned by the
// request user, writing the error response itself on failure.
func (h *TravelHandler) ownedTrip(w http.ResponseWriter, r *http.Request) (*models.Trip, bool) {
	user := middleware.UserFromContext(r)

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid trip ID")
		return nil, false
	}

	trip, err := h.tripRepo.GetByID(r.Context(), id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Trip not found")
		return nil, false
	}

	if trip.UserID != user.ID {
		respondJSONError(w, http.StatusForbidden, "Forbidden", "Trip does not belong to user")
		return nil, false
	}

	return trip, true
}

// parseOptionalDate parses a nullable YYYY-MM-DD field, writing a 400
// itself when the value is malformed. A nil or empty input yields nil.
func parseOptionalDate(w http.ResponseWriter, s *string, field string) (*time.Time, bool) {
	if s == nil || *s == "" {
		return nil, true
	}
	parsed, err := parseDate(*s)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid "+field+", expected YYYY-MM-DD")
		return nil, false
	}
	return &parsed, true
}
