package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/graham-fleming/lifehub/internal/demo"
	"github.com/graham-fleming/lifehub/internal/middleware"
)

// DemoHandler handles demo data seeding requests
type DemoHandler struct {
	seeder *demo.Seeder
}

// NewDemoHandler creates a new demo handler
func NewDemoHandler(seeder *demo.Seeder) *DemoHandler {
	return &DemoHandler{seeder: seeder}
}

// RegisterRoutes registers demo routes on the given router
// The router should already have the /demo prefix
func (h *DemoHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/seed", h.Seed).Methods("POST")
}

// SeedResponse reports the outcome of a seeding run
type SeedResponse struct {
	Seeded bool `json:"seeded"`
}

// Seed populates the caller's account with sample contacts and tasks.
// Fails when the account already holds any contacts.
func (h *DemoHandler) Seed(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	if err := h.seeder.Seed(r.Context(), user.ID); err != nil {
		if errors.Is(err, demo.ErrAlreadySeeded) {
			respondJSONError(w, http.StatusConflict, "Conflict", "Account already has data")
			return
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to seed demo data")
		return
	}

	respondJSON(w, http.StatusCreated, SeedResponse{Seeded: true})
}
