package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/spendwise/spendwise/internal/auth"
	"github.com/spendwise/spendwise/internal/handler/dto"
	"github.com/spendwise/spendwise/internal/service"
)

// ExpenseHandler handles HTTP requests for expense operations.
// All routes sit behind the session verifier, so an identity is always
// present in the request context.
type ExpenseHandler struct {
	svc    *service.ExpenseService
	logger *slog.Logger
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(svc *service.ExpenseService, logger *slog.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /expenses.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.ExpenseDate == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "expense_date is required")
		return
	}
	expenseDate, err := dto.ParseExpenseDate(req.ExpenseDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "expense_date must be YYYY-MM-DD or RFC3339")
		return
	}

	expense, err := h.svc.CreateExpense(r.Context(), service.CreateExpenseInput{
		UserID:      auth.UserIDFromContext(r.Context()),
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Description: req.Description,
		ExpenseDate: expenseDate,
		Tags:        req.Tags,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("expense_created",
		"expense_id", expense.ID,
		"user_id", expense.UserID,
		"request_id", requestID(r),
	)

	writeSuccess(w, http.StatusCreated, "Expense created successfully", dto.ToExpenseResponse(expense))
}

// List handles GET /expenses.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	input := service.ListExpensesInput{
		UserID: auth.UserIDFromContext(r.Context()),
	}

	if l := query.Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			input.Limit = parsed
		}
	}
	if c := query.Get("category_id"); c != "" {
		if parsed, err := strconv.ParseInt(c, 10, 64); err == nil {
			input.CategoryID = &parsed
		}
	}
	if from := query.Get("from"); from != "" {
		if t, err := dto.ParseExpenseDate(from); err == nil {
			input.From = &t
		}
	}
	if to := query.Get("to"); to != "" {
		if t, err := dto.ParseExpenseDate(to); err == nil {
			input.To = &t
		}
	}

	expenses, err := h.svc.ListExpenses(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Expenses retrieved", dto.ToExpenseListResponse(expenses))
}

// Get handles GET /expenses/{id}.
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Expense ID is required")
		return
	}

	expense, err := h.svc.GetExpense(r.Context(), id, auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Expense retrieved", dto.ToExpenseResponse(expense))
}

// Delete handles DELETE /expenses/{id}.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Expense ID is required")
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	if err := h.svc.DeleteExpense(r.Context(), id, userID); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("expense_deleted",
		"expense_id", id,
		"user_id", userID,
		"request_id", requestID(r),
	)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps expense service errors to HTTP responses.
func (h *ExpenseHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrAmountNotPositive),
		errors.Is(err, service.ErrDateRequired),
		errors.Is(err, service.ErrTooManyTags):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, service.ErrExpenseNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Expense not found")
	default:
		h.logger.Error("internal_error",
			"error", err,
			"request_id", requestID(r),
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
