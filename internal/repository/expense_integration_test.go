//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spendwise/spendwise/internal/testutil"
)

func TestIntegrationExpenseRepository_CreateAndGet(t *testing.T) {
	ctx, repo, userID := newExpenseTestEnv(t)

	expense := testutil.NewTestExpense(t, userID)
	categoryID := int64(3)
	expense.CategoryID = &categoryID

	if err := repo.CreateExpense(ctx, expense); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	retrieved, err := repo.GetExpense(ctx, expense.ID, userID)
	if err != nil {
		t.Fatalf("GetExpense failed: %v", err)
	}

	if retrieved.UserID != userID {
		t.Errorf("UserID mismatch: got %q, want %q", retrieved.UserID, userID)
	}
	if retrieved.Amount != expense.Amount {
		t.Errorf("Amount mismatch: got %v, want %v", retrieved.Amount, expense.Amount)
	}
	if retrieved.CategoryID == nil || *retrieved.CategoryID != categoryID {
		t.Errorf("CategoryID mismatch: got %v, want %d", retrieved.CategoryID, categoryID)
	}
	if len(retrieved.Tags) != 1 || retrieved.Tags[0] != "test" {
		t.Errorf("Tags mismatch: got %v", retrieved.Tags)
	}
}

func TestIntegrationExpenseRepository_OwnerScoping(t *testing.T) {
	ctx, repo, userID := newExpenseTestEnv(t)

	other := testutil.NewTestUser(t)
	if err := repo.CreateUser(ctx, other); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	expense := testutil.NewTestExpense(t, userID)
	if err := repo.CreateExpense(ctx, expense); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	// Another user's id must not see the row.
	if _, err := repo.GetExpense(ctx, expense.ID, other.ID); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("expected ErrExpenseNotFound for foreign owner, got %v", err)
	}

	if err := repo.DeleteExpense(ctx, expense.ID, other.ID); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("expected ErrExpenseNotFound deleting as foreign owner, got %v", err)
	}
}

func TestIntegrationExpenseRepository_ListFiltersAndOrder(t *testing.T) {
	ctx, repo, userID := newExpenseTestEnv(t)

	dates := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	categoryID := int64(7)

	for i, d := range dates {
		expense := testutil.NewTestExpense(t, userID)
		expense.ExpenseDate = d
		if i == 1 {
			expense.CategoryID = &categoryID
		}
		if err := repo.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
	}

	all, err := repo.ListExpenses(ctx, userID, ExpenseFilter{})
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 expenses, got %d", len(all))
	}
	// Newest expense date first.
	if !all[0].ExpenseDate.After(all[2].ExpenseDate) {
		t.Errorf("expected descending expense_date order")
	}

	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	filtered, err := repo.ListExpenses(ctx, userID, ExpenseFilter{From: &from})
	if err != nil {
		t.Fatalf("ListExpenses with From failed: %v", err)
	}
	if len(filtered) != 2 {
		t.Errorf("expected 2 expenses from Feb onward, got %d", len(filtered))
	}

	byCategory, err := repo.ListExpenses(ctx, userID, ExpenseFilter{CategoryID: &categoryID})
	if err != nil {
		t.Fatalf("ListExpenses with CategoryID failed: %v", err)
	}
	if len(byCategory) != 1 {
		t.Errorf("expected 1 expense in category, got %d", len(byCategory))
	}

	limited, err := repo.ListExpenses(ctx, userID, ExpenseFilter{Limit: 2})
	if err != nil {
		t.Fatalf("ListExpenses with Limit failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected limit of 2, got %d", len(limited))
	}
}

func TestIntegrationExpenseRepository_Delete(t *testing.T) {
	ctx, repo, userID := newExpenseTestEnv(t)

	expense := testutil.NewTestExpense(t, userID)
	if err := repo.CreateExpense(ctx, expense); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	if err := repo.DeleteExpense(ctx, expense.ID, userID); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}

	if _, err := repo.GetExpense(ctx, expense.ID, userID); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("expected ErrExpenseNotFound after delete, got %v", err)
	}

	if err := repo.DeleteExpense(ctx, expense.ID, userID); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("expected ErrExpenseNotFound on second delete, got %v", err)
	}
}

func newExpenseTestEnv(t *testing.T) (context.Context, *Repository, string) {
	t.Helper()
	ctx, repo := newUserTestEnv(t)

	owner := testutil.NewTestUser(t)
	if err := repo.CreateUser(ctx, owner); err != nil {
		t.Fatalf("create owner: %v", err)
	}

	return ctx, repo, owner.ID
}
