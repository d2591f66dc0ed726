package dto

import (
	"time"

	"github.com/spendwise/spendwise/internal/model"
)

// expenseDateFormat is the wire format for expense dates.
const expenseDateFormat = "2006-01-02"

// CreateExpenseRequest represents the request body for creating an expense.
// There is no user_id field: ownership always comes from the verified
// session, never from the client.
type CreateExpenseRequest struct {
	CategoryID  *int64   `json:"category_id,omitempty"`
	Amount      float64  `json:"amount"`
	Description string   `json:"description,omitempty"`
	ExpenseDate string   `json:"expense_date"`
	Tags        []string `json:"tags,omitempty"`
}

// ParseExpenseDate parses the expense_date field, accepting a plain
// date or a full RFC3339 timestamp.
func ParseExpenseDate(value string) (time.Time, error) {
	if t, err := time.Parse(expenseDateFormat, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// ExpenseResponse represents an expense in API responses.
type ExpenseResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CategoryID  *int64    `json:"category_id,omitempty"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
	ExpenseDate string    `json:"expense_date"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToExpenseResponse converts an expense model to its API shape.
func ToExpenseResponse(expense *model.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          expense.ID,
		UserID:      expense.UserID,
		CategoryID:  expense.CategoryID,
		Amount:      expense.Amount,
		Description: expense.Description,
		ExpenseDate: expense.ExpenseDate.Format(expenseDateFormat),
		Tags:        expense.Tags,
		CreatedAt:   expense.CreatedAt,
	}
}

// ToExpenseListResponse converts a slice of expenses.
func ToExpenseListResponse(expenses []*model.Expense) []ExpenseResponse {
	result := make([]ExpenseResponse, 0, len(expenses))
	for _, expense := range expenses {
		result = append(result, ToExpenseResponse(expense))
	}
	return result
}
