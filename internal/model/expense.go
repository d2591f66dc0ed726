package model

import "time"

// Expense is a spending record owned by exactly one user.
// CategoryID is optional; Tags are free-form labels.
type Expense struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CategoryID  *int64    `json:"category_id,omitempty"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
	ExpenseDate time.Time `json:"expense_date"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Identity is the authenticated principal extracted from a verified
// session token. Injected into request context by the auth middleware.
type Identity struct {
	UserID string
	Email  string
}
