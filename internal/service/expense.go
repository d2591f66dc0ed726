package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/spendwise/spendwise/internal/metrics"
	"github.com/spendwise/spendwise/internal/model"
	"github.com/spendwise/spendwise/internal/repository"
)

// Expense service errors.
var (
	ErrAmountNotPositive = errors.New("amount must be greater than zero")
	ErrDateRequired      = errors.New("expense date is required")
	ErrTooManyTags       = errors.New("too many tags")
	ErrExpenseNotFound   = errors.New("expense not found")
)

const (
	maxTags          = 16
	maxDescription   = 1024
	defaultListLimit = 50
	maxListLimit     = 200
)

// ExpenseStore is the persistence surface the expense service needs.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, expense *model.Expense) error
	GetExpense(ctx context.Context, id, userID string) (*model.Expense, error)
	ListExpenses(ctx context.Context, userID string, filter repository.ExpenseFilter) ([]*model.Expense, error)
	DeleteExpense(ctx context.Context, id, userID string) error
}

// ExpenseService handles expense business logic. Every operation is
// scoped to the authenticated user's id; a client-supplied owner is
// never accepted.
type ExpenseService struct {
	store   ExpenseStore
	metrics metrics.Recorder
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(store ExpenseStore, recorder metrics.Recorder) *ExpenseService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ExpenseService{
		store:   store,
		metrics: recorder,
	}
}

// CreateExpenseInput defines input for creating an expense.
// UserID comes from the verified identity, never from the request body.
type CreateExpenseInput struct {
	UserID      string
	CategoryID  *int64
	Amount      float64
	Description string
	ExpenseDate time.Time
	Tags        []string
}

// CreateExpense validates and persists a new expense for the owner.
func (s *ExpenseService) CreateExpense(ctx context.Context, input CreateExpenseInput) (*model.Expense, error) {
	if input.Amount <= 0 {
		return nil, ErrAmountNotPositive
	}
	if input.ExpenseDate.IsZero() {
		return nil, ErrDateRequired
	}
	if len(input.Tags) > maxTags {
		return nil, ErrTooManyTags
	}

	description := strings.TrimSpace(input.Description)
	if len(description) > maxDescription {
		description = description[:maxDescription]
	}

	tags := make([]string, 0, len(input.Tags))
	for _, tag := range input.Tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}

	expense := &model.Expense{
		ID:          ulid.Make().String(),
		UserID:      input.UserID,
		CategoryID:  input.CategoryID,
		Amount:      input.Amount,
		Description: description,
		ExpenseDate: input.ExpenseDate,
		Tags:        tags,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	s.metrics.IncExpenseCreated()
	return expense, nil
}

// GetExpense fetches a single expense owned by userID.
func (s *ExpenseService) GetExpense(ctx context.Context, id, userID string) (*model.Expense, error) {
	expense, err := s.store.GetExpense(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrExpenseNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return expense, nil
}

// ListExpensesInput defines filters for listing expenses.
type ListExpensesInput struct {
	UserID     string
	CategoryID *int64
	From       *time.Time
	To         *time.Time
	Limit      int
}

// ListExpenses returns the owner's expenses, newest expense date first.
func (s *ExpenseService) ListExpenses(ctx context.Context, input ListExpensesInput) ([]*model.Expense, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	expenses, err := s.store.ListExpenses(ctx, input.UserID, repository.ExpenseFilter{
		CategoryID: input.CategoryID,
		From:       input.From,
		To:         input.To,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// DeleteExpense removes an expense owned by userID.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id, userID string) error {
	if err := s.store.DeleteExpense(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrExpenseNotFound) {
			return ErrExpenseNotFound
		}
		return fmt.Errorf("delete expense: %w", err)
	}

	s.metrics.IncExpenseDeleted()
	return nil
}
