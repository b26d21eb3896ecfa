package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/graham-fleming/lifehub/internal/database"
	"github.com/graham-fleming/lifehub/internal/demo"
	"github.com/graham-fleming/lifehub/internal/middleware"
	"github.com/graham-fleming/lifehub/internal/models"
	"github.com/graham-fleming/lifehub/internal/services/saver"
	"github.com/graham-fleming/lifehub/internal/validation"
)

// SaverHandler handles universal saver requests
type SaverHandler struct {
	saverService *saver.Service
	itemRepo     database.SavedItemRepositoryInterface
}

// NewSaverHandler creates a new saver handler
func NewSaverHandler(saverService *saver.Service, itemRepo database.SavedItemRepositoryInterface) *SaverHandler {
	return &SaverHandler{saverService: saverService, itemRepo: itemRepo}
}

// RegisterRoutes registers saver routes on the given router
// The router should already have the /saver prefix
func (h *SaverHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/items", h.SaveItem).Methods("POST")
	r.HandleFunc("/items", h.ListItems).Methods("GET")
	r.HandleFunc("/items/{id}", h.DeleteItem).Methods("DELETE")
	r.HandleFunc("/search", h.Search).Methods("POST")
}

// SaveItemRequest represents a universal save request
type SaveItemRequest struct {
	Text string `json:"text" validate:"required,min=1"`
}

// SearchRequest represents a similarity search request. Category "all"
// or empty means no category filter.
type SearchRequest struct {
	Query    string `json:"query" validate:"required,min=1"`
	Category string `json:"category" validate:"omitempty"`
}

// SaveItem classifies, embeds, and stores a piece of free-form text
func (h *SaverHandler) SaveItem(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req SaveItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	item, err := h.saverService.Save(r.Context(), user.ID, req.Text)
	if err != nil {
		var providerErr *saver.ProviderError
		switch {
		case errors.Is(err, saver.ErrEmptyText), errors.Is(err, saver.ErrTextTooLong):
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		case errors.As(err, &providerErr):
			respondJSONError(w, http.StatusBadGateway, "Bad Gateway", "Could not categorize the text, please try again")
		default:
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to save item")
		}
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

// ListItems lists saved items, optionally filtered by category.
// Unauthenticated requests are served the demo fixture set.
func (h *SaverHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)

	var category *models.SaverCategory
	if c := r.URL.Query().Get("category"); c != "" && c != "all" {
		if err := validation.ValidateSaverCategory(c, false); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		cEnum := models.SaverCategory(c)
		category = &cEnum
	}

	if user == nil {
		items := demo.SavedItems()
		if category != nil {
			filtered := make([]*models.SavedItem, 0, len(items))
			for _, item := range items {
				if item.Category == *category {
					filtered = append(filtered, item)
				}
			}
			items = filtered
		}
		respondJSON(w, http.StatusOK, items)
		return
	}

	items, err := h.itemRepo.GetByUserID(r.Context(), user.ID, category)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve saved items")
		return
	}

	respondJSON(w, http.StatusOK, items)
}

// DeleteItem deletes a saved item
func (h *SaverHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid item ID")
		return
	}

	ctx := r.Context()
	item, err := h.itemRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Saved item not found")
		return
	}

	if item.UserID != user.ID {
		respondJSONError(w, http.StatusForbidden, "Forbidden", "Saved item does not belong to user")
		return
	}

	if _, err := h.itemRepo.Delete(ctx, id); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete saved item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Search embeds the query and returns similar saved items
func (h *SaverHandler) Search(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req SearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	var category *models.SaverCategory
	if req.Category != "" && req.Category != "all" {
		if err := validation.ValidateSaverCategory(req.Category, false); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		cEnum := models.SaverCategory(req.Category)
		category = &cEnum
	}

	items, err := h.saverService.Search(r.Context(), user.ID, req.Query, category)
	if err != nil {
		var providerErr *saver.ProviderError
		switch {
		case errors.Is(err, saver.ErrEmptyText):
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		case errors.As(err, &providerErr):
			respondJSONError(w, http.StatusBadGateway, "Bad Gateway", "Search failed, please try again")
		default:
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Search failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, items)
}
