package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/spendwise/spendwise/internal/model"
)

// ErrExpenseNotFound is returned when no expense matches the id and owner.
var ErrExpenseNotFound = errors.New("expense not found")

// ExpenseFilter narrows ListExpenses results. Zero values mean "no filter".
type ExpenseFilter struct {
	CategoryID *int64
	From       *time.Time
	To         *time.Time
	Limit      int
}

// CreateExpense inserts a new expense row and returns it with
// store-assigned fields populated.
func (r *Repository) CreateExpense(ctx context.Context, expense *model.Expense) error {
	query := `
		INSERT INTO expenses (id, user_id, category_id, amount, description, expense_date, tags, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		expense.ID,
		expense.UserID,
		expense.CategoryID,
		expense.Amount,
		expense.Description,
		expense.ExpenseDate,
		pq.Array(expense.Tags),
		expense.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	return nil
}

// GetExpense retrieves a single expense scoped to its owner.
// Rows belonging to other users are indistinguishable from missing ones.
func (r *Repository) GetExpense(ctx context.Context, id, userID string) (*model.Expense, error) {
	query := `
		SELECT id, user_id, category_id, amount, description, expense_date, tags, created_at
		FROM expenses
		WHERE id = $1 AND user_id = $2
	`

	expense, err := scanExpense(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// ListExpenses retrieves expenses for a user, newest expense date first.
func (r *Repository) ListExpenses(ctx context.Context, userID string, filter ExpenseFilter) ([]*model.Expense, error) {
	query := `
		SELECT id, user_id, category_id, amount, description, expense_date, tags, created_at
		FROM expenses
		WHERE user_id = $1
	`
	args := []any{userID}

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND expense_date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND expense_date <= $%d", len(args))
	}

	query += " ORDER BY expense_date DESC, id DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]*model.Expense, 0)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

// DeleteExpense removes an expense scoped to its owner.
func (r *Repository) DeleteExpense(ctx context.Context, id, userID string) error {
	query := `DELETE FROM expenses WHERE id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrExpenseNotFound
	}

	return nil
}

// rowScanner abstracts pgx.Row and pgx.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*model.Expense, error) {
	var expense model.Expense
	err := row.Scan(
		&expense.ID,
		&expense.UserID,
		&expense.CategoryID,
		&expense.Amount,
		&expense.Description,
		&expense.ExpenseDate,
		pq.Array(&expense.Tags),
		&expense.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &expense, nil
}
