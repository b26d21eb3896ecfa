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

// FinanceHandler handles transaction and budget requests
type FinanceHandler struct {
	txRepo     *database.TransactionRepository
	budgetRepo *database.BudgetRepository
}

// NewFinanceHandler creates a new finance handler
func NewFinanceHandler(txRepo *database.TransactionRepository, budgetRepo *database.BudgetRepository) *FinanceHandler {
	return &FinanceHandler{txRepo: txRepo, budgetRepo: budgetRepo}
}

// RegisterRoutes registers finance routes on the given router
// The router should already have the /finance prefix
func (h *FinanceHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/transactions", h.ListTransactions).Methods("GET")
	r.HandleFunc("/transactions", h.CreateTransaction).Methods("POST")
	r.HandleFunc("/transactions/{id}", h.UpdateTransaction).Methods("PATCH")
	r.HandleFunc("/transactions/{id}", h.DeleteTransaction).Methods("DELETE")
	r.HandleFunc("/budgets", h.ListBudgets).Methods("GET")
	r.HandleFunc("/budgets", h.PutBudget).Methods("PUT")
}

// CreateTransactionRequest represents a create transaction request
type CreateTransactionRequest struct {
	Description string  `json:"description" validate:"required,min=1,max=500"`
	Amount      float64 `json:"amount" validate:"required"`
	Category    string  `json:"category" validate:"omitempty,max=100"`
	OccurredOn  string  `json:"occurred_on" validate:"omitempty"`
}

// UpdateTransactionRequest represents an update transaction request
type UpdateTransactionRequest struct {
	Description *string  `json:"description,omitempty" validate:"omitempty,min=1,max=500"`
	Amount      *float64 `json:"amount,omitempty"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,max=100"`
	OccurredOn  *string  `json:"occurred_on,omitempty"`
}

// PutBudgetRequest sets or clears a monthly budget. A non-positive
// amount deletes the budget for the (category, month) key.
type PutBudgetRequest struct {
	Category string  `json:"category" validate:"required,min=1,max=100"`
	Month    string  `json:"month" validate:"required"`
	Amount   float64 `json:"amount"`
}

// BudgetStatus pairs a budget with the month's spending against it
type BudgetStatus struct {
	*models.Budget
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
}

// ListTransactions lists transactions, optionally filtered by category.
// Unauthenticated requests are served the demo fixture set.
func (h *FinanceHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSON(w, http.StatusOK, demo.Transactions())
		return
	}

	var category *string
	if c := r.URL.Query().Get("category"); c != "" {
		category = &c
	}

	txs, err := h.txRepo.GetByUserID(r.Context(), user.ID, category)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve transactions")
		return
	}

	respondJSON(w, http.StatusOK, txs)
}

// CreateTransaction creates a new transaction
func (h *FinanceHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req CreateTransactionRequest
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

	category := models.DefaultTransactionCategory
	if req.Category != "" {
		category = validation.SanitizeText(req.Category)
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

	tx := &models.Transaction{
		ID:          uuid.New(),
		UserID:      user.ID,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    category,
		OccurredOn:  occurredOn,
	}

	if err := h.txRepo.Create(r.Context(), tx); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create transaction")
		return
	}

	respondJSON(w, http.StatusCreated, tx)
}

// UpdateTransaction updates an existing transaction
func (h *FinanceHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid transaction ID")
		return
	}

	ctx := r.Context()
	tx, err := h.txRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Transaction not found")
		return
	}

	if tx.UserID != user.ID {
		respondJSONError(w, http.StatusForbidden, "Forbidden", "Transaction does not belong to user")
		return
	}

	var req UpdateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	if req.Description != nil {
		sanitized := validation.SanitizeText(*req.Description)
		if sanitized == "" {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Description cannot be empty after sanitization")
			return
		}
		tx.Description = sanitized
	}
	if req.Amount != nil {
		tx.Amount = *req.Amount
	}
	if req.Category != nil {
		sanitized := validation.SanitizeText(*req.Category)
		if sanitized == "" {
			sanitized = models.DefaultTransactionCategory
		}
		tx.Category = sanitized
	}
	if req.OccurredOn != nil {
		parsed, err := parseDate(*req.OccurredOn)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid occurred_on date, expected YYYY-MM-DD")
			return
		}
		tx.OccurredOn = parsed
	}

	if err := h.txRepo.Update(ctx, tx); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update transaction")
		return
	}

	respondJSON(w, http.StatusOK, tx)
}

// DeleteTransaction deletes a transaction
func (h *FinanceHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid transaction ID")
		return
	}

	ctx := r.Context()
	tx, err := h.txRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Transaction not found")
		return
	}

	if tx.UserID != user.ID {
		respondJSONError(w, http.StatusForbidden, "Forbidden", "Transaction does not belong to user")
		return
	}

	if _, err := h.txRepo.Delete(ctx, id); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete transaction")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListBudgets lists budgets, optionally scoped to a month. When a month
// filter is present, each budget is returned with its spent total.
// Unauthenticated requests are served the demo fixture set.
func (h *FinanceHandler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSON(w, http.StatusOK, demo.Budgets())
		return
	}

	ctx := r.Context()

	var month *string
	if m := r.URL.Query().Get("month"); m != "" {
		if _, err := time.Parse("2006-01", m); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid month, expected YYYY-MM")
			return
		}
		month = &m
	}

	budgets, err := h.budgetRepo.GetByUserID(ctx, user.ID, month)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve budgets")
		return
	}

	if month == nil {
		respondJSON(w, http.StatusOK, budgets)
		return
	}

	spent, err := h.budgetRepo.SpentByCategory(ctx, user.ID, *month)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to compute spending")
		return
	}

	statuses := make([]*BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		s := spent[b.Category]
		statuses = append(statuses, &BudgetStatus{
			Budget:    b,
			Spent:     s,
			Remaining: b.Amount - s,
		})
	}

	respondJSON(w, http.StatusOK, statuses)
}

// PutBudget upserts a budget keyed by (category, month). A non-positive
// amount removes the budget instead.
func (h *FinanceHandler) PutBudget(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req PutBudgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateStruct(w, &req) {
		return
	}

	if _, err := time.Parse("2006-01", req.Month); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid month, expected YYYY-MM")
		return
	}

	req.Category = validation.SanitizeText(req.Category)
	if req.Category == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Category is required and cannot be empty after sanitization")
		return
	}

	ctx := r.Context()

	if req.Amount <= 0 {
		if _, err := h.budgetRepo.Delete(ctx, user.ID, req.Category, req.Month); err != nil {
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete budget")
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	budget := &models.Budget{
		UserID:   user.ID,
		Category: req.Category,
		Month:    req.Month,
		Amount:   req.Amount,
	}

	if err := h.budgetRepo.Upsert(ctx, budget); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to save budget")
		return
	}

	respondJSON(w, http.StatusOK, budget)
}
