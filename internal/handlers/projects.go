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

// ProjectHandler handles project requests
type ProjectHandler struct {
	projectRepo *database.ProjectRepository
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectRepo *database.ProjectRepository) *ProjectHandler {
	return &ProjectHandler{projectRepo: projectRepo}
}

// RegisterRoutes registers project routes on the given router
// The router should already have the /projects prefix
func (h *ProjectHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListProjects).Methods("GET")
	r.HandleFunc("", h.CreateProject).Methods("POST")
	r.HandleFunc("/{id}", h.UpdateProject).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteProject).Methods("DELETE")
}

// CreateProjectRequest represents a create project request
type CreateProjectRequest struct {
	Name        string                `json:"name" validate:"required,min=1,max=200"`
	Description *string               `json:"description,omitempty" validate:"omitempty,max=10000"`
	Status      *models.ProjectStatus `json:"status,omitempty" validate:"omitempty,project_status"`
}

// UpdateProjectRequest represents an update project request
type UpdateProjectRequest struct {
	Name        *string               `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string               `json:"description,omitempty" validate:"omitempty,max=10000"`
	Status      *models.ProjectStatus `json:"status,omitempty" validate:"omitempty,project_status"`
}

// ListProjects lists projects for the authenticated user. Unauthenticated
// requests are served the demo fixture set.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSON(w, http.StatusOK, demo.Projects())
		return
	}

	projects, err := h.projectRepo.GetByUserID(r.Context(), user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve projects")
		return
	}

	respondJSON(w, http.StatusOK, projects)
}

// CreateProject creates a new project
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req CreateProjectRequest
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

	status := models.ProjectStatusActive
	if req.Status != nil {
		status = *req.Status
	}

	project := &models.Project{
		ID:          uuid.New(),
		UserID:      user.ID,
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
	}

	if err := h.projectRepo.Create(r.Context(), project); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create project")
		return
	}

	respondJSON(w, http.StatusCreated, project)
}

// UpdateProject updates an existing project
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid project ID")
		return
	}

	ctx := r.Context()
	project, err := h.projectRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Project not found")
		return
	}

	if project.UserID != user.ID {
		respondJSONError(w, http.StatusForbidden, "Forbidden", "Project does not belong to user")
		return
	}

	var req UpdateProjectRequest
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
		project.Name = sanitized
	}
	if req.Description != nil {
		project.Description = req.Description
	}
	if req.Status != nil {
		project.Status = *req.Status
	}

	if err := h.projectRepo.Update(ctx, project); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update project")
		return
	}

	respondJSON(w, http.StatusOK, project)
}

// DeleteProject deletes a project
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid project ID")
		return
	}

	ctx := r.Context()
	project, err := h.projectRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Project not found")
		return
	}

	if project.UserID != user.ID {
		respondJSONError(w, http.StatusForbidden, "Forbidden", "Project does not belong to user")
		return
	}

	if _, err := h.projectRepo.Delete(ctx, id); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete project")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
