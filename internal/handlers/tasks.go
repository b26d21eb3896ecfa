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

// TaskHandler handles task requests
type TaskHandler struct {
	taskRepo    *database.TaskRepository
	contactRepo *database.ContactRepository
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskRepo *database.TaskRepository, contactRepo *database.ContactRepository) *TaskHandler {
	return &TaskHandler{taskRepo: taskRepo, contactRepo: contactRepo}
}

// RegisterRoutes registers task routes on the given router
// The router should already have the /tasks prefix
func (h *TaskHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListTasks).Methods("GET")
	r.HandleFunc("", h.CreateTask).Methods("POST")
	r.HandleFunc("/{id}", h.UpdateTask).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteTask).Methods("DELETE")
}

// CreateTaskRequest represents a create task request
type CreateTaskRequest struct {
	Title     string     `json:"title" validate:"required,min=1,max=500"`
	DueDate   *string    `json:"due_date,omitempty"`
	ContactID *uuid.UUID `json:"contact_id,omitempty"`
}

// UpdateTaskRequest represents an update task request
type UpdateTaskRequest struct {
	Title     *string            `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	Status    *models.TaskStatus `json:"status,omitempty" validate:"omitempty,task_status"`
	DueDate   *string            `json:"due_date,omitempty"`
	ContactID *uuid.UUID         `json:"contact_id,omitempty"`
}

// ListTasks lists tasks, optionally filtered by status or linked
// contact. Unauthenticated requests are served the demo fixture set.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSON(w, http.StatusOK, demo.Tasks())
		return
	}

	ctx := r.Context()

	if c := r.URL.Query().Get("contact_id"); c != "" {
		contactID, err := uuid.Parse(c)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid contact_id")
			return
		}
		tasks, err := h.taskRepo.GetByContactID(ctx, user.ID, contactID)
		if err != nil {
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve tasks")
			return
		}
		respondJSON(w, http.StatusOK, tasks)
		return
	}

	var status *models.TaskStatus
	if s := r.URL.Query().Get("status"); s != "" {
		if err := validation.ValidateTaskStatus(s); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		sEnum := models.TaskStatus(s)
		status = &sEnum
	}

	tasks, err := h.taskRepo.GetByUserID(ctx, user.ID, status)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve tasks")
		return
	}

	respondJSON(w, http.StatusOK, tasks)
}

// CreateTask creates a new task, optionally linked to a contact
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req CreateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	req.Title = validation.SanitizeText(req.Title)
	if req.Title == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Title is required and cannot be empty after sanitization")
		return
	}

	dueDate, ok := parseOptionalDate(w, req.DueDate, "due_date")
	if !ok {
		return
	}

	ctx := r.Context()
	if req.ContactID != nil {
		if !h.contactBelongsToUser(w, r, *req.ContactID, user.ID) {
			return
		}
	}

	task := &models.Task{
		ID:        uuid.New(),
		UserID:    user.ID,
		Title:     req.Title,
		Status:    models.TaskStatusOpen,
		DueDate:   dueDate,
		ContactID: req.ContactID,
	}

	if err := h.taskRepo.Create(ctx, task); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create task")
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

// UpdateTask updates an existing task
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid task ID")
		return
	}

	ctx := r.Context()
	task, err := h.taskRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Task not found")
		return
	}

	if task.UserID != user.ID {
		respondJSONError(w, http.StatusForbidden, "Forbidden", "Task does not belong to user")
		return
	}

	var req UpdateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	if req.Title != nil {
		sanitized := validation.SanitizeText(*req.Title)
		if sanitized == "" {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Title cannot be empty after sanitization")
			return
		}
		task.Title = sanitized
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.DueDate != nil {
		parsed, ok := parseOptionalDate(w, req.DueDate, "due_date")
		if !ok {
			return
		}
		task.DueDate = parsed
	}
	if req.ContactID != nil {
		if !h.contactBelongsToUser(w, r, *req.ContactID, user.ID) {
			return
		}
		task.ContactID = req.ContactID
	}

	if err := h.taskRepo.Update(ctx, task); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update task")
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid task ID")
		return
	}

	ctx := r.Context()
	task, err := h.taskRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Task not found")
		return
	}

	if task.UserID != user.ID {
		respondJSONError(w, http.StatusForbidden, "Forbidden", "Task does not belong to user")
		return
	}

	if _, err := h.taskRepo.Delete(ctx, id); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// contactBelongsToUser verifies a linked contact exists and is owned by
// the request user, writing the error response itself on failure.
func (h *TaskHandler) contactBelongsToUser(w http.ResponseWriter, r *http.Request, contactID, userID uuid.UUID) bool {
	contact, err := h.contactRepo.GetByID(r.Context(), contactID)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Linked contact not found")
		return false
	}
	if contact.UserID != userID {
		respondJSONError(w, http.StatusForbidden, "Forbidden", "Linked contact does not belong to user")
		return false
	}
	return true
}
