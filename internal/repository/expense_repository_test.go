package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"expenso/internal/apperr"
	"expenso/internal/models"
	"expenso/pkg/sqlite"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func newTestRepository(t *testing.T) *ExpenseRepository {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewExpenseRepository(db, zap.NewNop())
}

func mustCreate(t *testing.T, repo *ExpenseRepository, name string, amount float64, currency, category string, date time.Time) *models.Expense {
	t.Helper()

	exp, err := repo.Create(context.Background(), &models.NewExpense{
		Name:     name,
		Amount:   decimal.NewFromFloat(amount),
		Currency: currency,
		Category: category,
		Date:     &date,
	})
	if err != nil {
		t.Fatalf("create expense %q: %v", name, err)
	}
	return exp
}

func day(d int) time.Time {
	return time.Date(2026, 1, d, 12, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestExpenseRepository_CreateAndGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	t.Run("round trip with explicit date", func(t *testing.T) {
		created := mustCreate(t, repo, "Coffee", 4.5, "USD", "Food", day(10))

		if created.ID <= 0 {
			t.Errorf("ID = %d, want positive", created.ID)
		}
		if created.Name != "Coffee" || created.Currency != "USD" || created.Category != "Food" {
			t.Errorf("unexpected fields: %+v", created)
		}
		if !created.Amount.Equal(decimal.NewFromFloat(4.5)) {
			t.Errorf("Amount = %s, want 4.5", created.Amount)
		}
		if !created.Date.Equal(day(10)) {
			t.Errorf("Date = %v, want %v", created.Date, day(10))
		}
		if !created.CreatedAt.Equal(created.UpdatedAt) {
			t.Errorf("CreatedAt %v != UpdatedAt %v at creation", created.CreatedAt, created.UpdatedAt)
		}

		fetched, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get by id: %v", err)
		}
		if fetched.ID != created.ID || fetched.Name != created.Name {
			t.Errorf("fetched %+v, want %+v", fetched, created)
		}
	})

	t.Run("date defaults to creation instant", func(t *testing.T) {
		before := time.Now().UTC().Add(-2 * time.Second)
		created, err := repo.Create(ctx, &models.NewExpense{
			Name:     "Snack",
			Amount:   decimal.NewFromInt(3),
			Currency: "USD",
			Category: "Food",
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if created.Date.Before(before) {
			t.Errorf("defaulted Date %v is too far in the past", created.Date)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 99999)
		if !apperr.IsNotFound(err) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})
}

func TestExpenseRepository_List(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	mustCreate(t, repo, "Groceries", 62.10, "USD", "Food", day(5))
	mustCreate(t, repo, "Taxi", 18.25, "USD", "Transport", day(10))
	mustCreate(t, repo, "Lunch", 12.80, "USD", "Food", day(15))
	mustCreate(t, repo, "Cinema", 15.00, "USD", "Entertainment", day(20))
	mustCreate(t, repo, "Coffee", 4.50, "USD", "Food", day(25))

	t.Run("no filters returns all ordered by date desc", func(t *testing.T) {
		expenses, err := repo.List(ctx, Filter{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(expenses) != 5 {
			t.Fatalf("len = %d, want 5", len(expenses))
		}
		for i := 1; i < len(expenses); i++ {
			if expenses[i].Date.After(expenses[i-1].Date) {
				t.Errorf("rows not ordered by date desc at index %d", i)
			}
		}
		if expenses[0].Name != "Coffee" {
			t.Errorf("first row = %q, want most recent (Coffee)", expenses[0].Name)
		}
	})

	t.Run("category filter", func(t *testing.T) {
		expenses, err := repo.List(ctx, Filter{Category: strPtr("Food")})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(expenses) != 3 {
			t.Fatalf("len = %d, want 3", len(expenses))
		}
		for _, e := range expenses {
			if e.Category != "Food" {
				t.Errorf("row %q has category %q", e.Name, e.Category)
			}
		}
	})

	t.Run("closed date interval includes both bounds", func(t *testing.T) {
		start := day(10)
		end := day(20)
		expenses, err := repo.List(ctx, Filter{StartDate: &start, EndDate: &end})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(expenses) != 3 {
			t.Fatalf("len = %d, want 3 (10th, 15th and 20th)", len(expenses))
		}
		if expenses[0].Name != "Cinema" || expenses[2].Name != "Taxi" {
			t.Errorf("unexpected interval rows: %q .. %q", expenses[0].Name, expenses[2].Name)
		}
	})

	t.Run("limit and offset select the middle page", func(t *testing.T) {
		expenses, err := repo.List(ctx, Filter{Limit: intPtr(2), Offset: intPtr(2)})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(expenses) != 2 {
			t.Fatalf("len = %d, want 2", len(expenses))
		}
		// Full order is Coffee, Cinema, Lunch, Taxi, Groceries.
		if expenses[0].Name != "Lunch" || expenses[1].Name != "Taxi" {
			t.Errorf("page = [%q %q], want [Lunch Taxi]", expenses[0].Name, expenses[1].Name)
		}
	})

	t.Run("offset without limit", func(t *testing.T) {
		expenses, err := repo.List(ctx, Filter{Offset: intPtr(3)})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(expenses) != 2 {
			t.Fatalf("len = %d, want 2", len(expenses))
		}
	})

	t.Run("count ignores limit and offset", func(t *testing.T) {
		total, err := repo.Count(ctx, Filter{Limit: intPtr(2), Offset: intPtr(2)})
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if total != 5 {
			t.Errorf("total = %d, want 5", total)
		}
	})

	t.Run("count follows the filter predicate", func(t *testing.T) {
		total, err := repo.Count(ctx, Filter{Category: strPtr("Food")})
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
	})
}

func TestExpenseRepository_Update(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	t.Run("merges present fields and keeps the rest", func(t *testing.T) {
		created := mustCreate(t, repo, "Coffee", 4.5, "USD", "Food", day(10))

		// Timestamps have second resolution, so cross a boundary before updating.
		time.Sleep(1100 * time.Millisecond)

		newAmount := decimal.NewFromFloat(5.25)
		updated, err := repo.Update(ctx, created.ID, &models.ExpensePatch{
			Amount: &newAmount,
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}

		if !updated.Amount.Equal(newAmount) {
			t.Errorf("Amount = %s, want 5.25", updated.Amount)
		}
		if updated.Name != "Coffee" || updated.Currency != "USD" || updated.Category != "Food" {
			t.Errorf("untouched fields changed: %+v", updated)
		}
		if !updated.Date.Equal(created.Date) {
			t.Errorf("Date changed: %v -> %v", created.Date, updated.Date)
		}
		if !updated.CreatedAt.Equal(created.CreatedAt) {
			t.Errorf("CreatedAt changed: %v -> %v", created.CreatedAt, updated.CreatedAt)
		}
		if !updated.UpdatedAt.After(created.UpdatedAt) {
			t.Errorf("UpdatedAt %v did not advance past %v", updated.UpdatedAt, created.UpdatedAt)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		name := "Ghost"
		_, err := repo.Update(ctx, 99999, &models.ExpensePatch{Name: &name})
		if !apperr.IsNotFound(err) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})
}

func TestExpenseRepository_Delete(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	created := mustCreate(t, repo, "Coffee", 4.5, "USD", "Food", day(10))

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}

	if _, err := repo.GetByID(ctx, created.ID); !apperr.IsNotFound(err) {
		t.Errorf("expected NotFound after delete, got %v", err)
	}

	if err := repo.Delete(ctx, created.ID); !apperr.IsNotFound(err) {
		t.Errorf("second delete should be NotFound, got %v", err)
	}
}

func TestExpenseRepository_TotalsByCategory(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	mustCreate(t, repo, "Groceries", 10, "USD", "Food", day(5))
	mustCreate(t, repo, "Lunch", 15, "USD", "Food", day(10))
	mustCreate(t, repo, "Bus", 5, "USD", "Travel", day(15))

	t.Run("sums per category ordered by total desc", func(t *testing.T) {
		totals, err := repo.TotalsByCategory(ctx, nil, nil)
		if err != nil {
			t.Fatalf("totals: %v", err)
		}
		if len(totals) != 2 {
			t.Fatalf("len = %d, want 2", len(totals))
		}
		if totals[0].Category != "Food" || !totals[0].Total.Equal(decimal.NewFromInt(25)) {
			t.Errorf("totals[0] = %+v, want Food 25", totals[0])
		}
		if totals[1].Category != "Travel" || !totals[1].Total.Equal(decimal.NewFromInt(5)) {
			t.Errorf("totals[1] = %+v, want Travel 5", totals[1])
		}
	})

	t.Run("date range narrows the aggregate", func(t *testing.T) {
		start := day(10)
		totals, err := repo.TotalsByCategory(ctx, &start, nil)
		if err != nil {
			t.Fatalf("totals: %v", err)
		}
		if len(totals) != 2 {
			t.Fatalf("len = %d, want 2", len(totals))
		}
		if !totals[0].Total.Equal(decimal.NewFromInt(15)) {
			t.Errorf("totals[0].Total = %s, want 15 (only Lunch in range)", totals[0].Total)
		}
	})
}
