package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/graham-fleming/lifehub/internal/database"
	"github.com/graham-fleming/lifehub/internal/demo"
	"github.com/graham-fleming/lifehub/internal/middleware"
	"github.com/graham-fleming/lifehub/internal/models"
	"github.com/graham-fleming/lifehub/internal/validation"
)

// WellnessHandler handles mood entry requests
type WellnessHandler struct {
	moodRepo *database.MoodRepository
}

// NewWellnessHandler creates a new wellness handler
func NewWellnessHandler(moodRepo *database.MoodRepository) *WellnessHandler {
	return &WellnessHandler{moodRepo: moodRepo}
}

// RegisterRoutes registers wellness routes on the given router
// The router should already have the /wellness prefix
func (h *WellnessHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/moods", h.ListMoods).Methods("GET")
	r.HandleFunc("/moods", h.PutMood).Methods("PUT")
	r.HandleFunc("/moods/{date}", h.DeleteMood).Methods("DELETE")
}

// PutMoodRequest upserts the mood entry for a day. EntryDate defaults
// to today when omitted; a second write for the same day replaces the
// first.
type PutMoodRequest struct {
	EntryDate string  `json:"entry_date" validate:"omitempty"`
	Mood      int     `json:"mood" validate:"required,gte=1,lte=5"`
	Energy    int     `json:"energy" validate:"required,gte=1,lte=5"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=10000"`
}

// ListMoods lists mood entries for the authenticated user, newest day
// first. Unauthenticated requests are served the demo fixture set.
func (h *WellnessHandler) ListMoods(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSON(w, http.StatusOK, demo.Moods())
		return
	}

	moods, err := h.moodRepo.GetByUserID(r.Context(), user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve mood entries")
		return
	}

	respondJSON(w, http.StatusOK, moods)
}

// PutMood upserts the mood entry keyed by (user, entry_date)
func (h *WellnessHandler) PutMood(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req PutMoodRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	entryDate := time.Now().UTC().Format("2006-01-02")
	if req.EntryDate != "" {
		if _, err := parseDate(req.EntryDate); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid entry_date, expected YYYY-MM-DD")
			return
		}
		entryDate = req.EntryDate
	}

	if req.Notes != nil {
		sanitized := validation.SanitizeText(*req.Notes)
		req.Notes = &sanitized
	}

	entry := &models.MoodEntry{
		UserID:    user.ID,
		EntryDate: entryDate,
		Mood:      req.Mood,
		Energy:    req.Energy,
		Notes:     req.Notes,
	}

	if err := h.moodRepo.Upsert(r.Context(), entry); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to save mood entry")
		return
	}

	respondJSON(w, http.StatusOK, entry)
}

// DeleteMood removes the mood entry for a day
func (h *WellnessHandler) DeleteMood(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	vars := mux.Vars(r)
	date := vars["date"]
	if _, err := parseDate(date); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid date, expected YYYY-MM-DD")
		return
	}

	affected, err := h.moodRepo.Delete(r.Context(), user.ID, date)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete mood entry")
		return
	}
	if affected == 0 {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Mood entry not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
