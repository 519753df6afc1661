package service

import (
	"context"
	"time"

	"expenso/internal/apperr"
	"expenso/internal/dto"
	"expenso/internal/models"
	"expenso/internal/repository"

	"go.uber.org/zap"
)

// ExpenseStore is the repository surface the service needs. The concrete
// implementation is repository.ExpenseRepository.
type ExpenseStore interface {
	Create(ctx context.Context, exp *models.NewExpense) (*models.Expense, error)
	GetByID(ctx context.Context, id int64) (*models.Expense, error)
	List(ctx context.Context, f repository.Filter) ([]*models.Expense, error)
	Count(ctx context.Context, f repository.Filter) (int64, error)
	Update(ctx context.Context, id int64, patch *models.ExpensePatch) (*models.Expense, error)
	Delete(ctx context.Context, id int64) error
	TotalsByCategory(ctx context.Context, startDate, endDate *time.Time) ([]models.CategoryTotal, error)
}

// ExpenseService orchestrates validated input and repository calls. It owns
// the pagination limits; everything else it delegates.
type ExpenseService struct {
	store           ExpenseStore
	defaultPageSize int
	maxPageSize     int
	logger          *zap.Logger
}

func NewExpenseService(store ExpenseStore, defaultPageSize, maxPageSize int, logger *zap.Logger) *ExpenseService {
	return &ExpenseService{
		store:           store,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		logger:          logger,
	}
}

func (s *ExpenseService) CreateExpense(ctx context.Context, exp *models.NewExpense) (*models.Expense, error) {
	created, err := s.store.Create(ctx, exp)
	if err != nil {
		return nil, err
	}
	s.logger.Info("expense created",
		zap.Int64("id", created.ID),
		zap.String("category", created.Category),
		zap.String("amount", created.Amount.String()),
	)
	return created, nil
}

// GetExpenseByID returns nil without error when the id does not exist, so the
// caller decides the HTTP framing of absence.
func (s *ExpenseService) GetExpenseByID(ctx context.Context, id int64) (*models.Expense, error) {
	exp, err := s.store.GetByID(ctx, id)
	if apperr.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return exp, nil
}

// ListResult pairs one page of expenses with the effective pagination values.
type ListResult struct {
	Expenses []*models.Expense
	Total    int64
	Limit    int
	Offset   int
}

// ListExpenses applies the configured page-size defaults, clamps the requested
// limit to the maximum and fetches page plus unlimited match count.
func (s *ExpenseService) ListExpenses(ctx context.Context, q *dto.ListQuery) (*ListResult, error) {
	limit := s.defaultPageSize
	if q.Limit != nil {
		limit = *q.Limit
		if limit > s.maxPageSize {
			limit = s.maxPageSize
		}
	}
	offset := 0
	if q.Offset != nil {
		offset = *q.Offset
	}

	filter := repository.Filter{
		Category:  q.Category,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Limit:     &limit,
		Offset:    &offset,
	}

	expenses, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	// Total reflects the filter predicate only; Count ignores limit/offset.
	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ListResult{Expenses: expenses, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *ExpenseService) UpdateExpense(ctx context.Context, id int64, patch *models.ExpensePatch) (*models.Expense, error) {
	updated, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Info("expense updated", zap.Int64("id", id))
	return updated, nil
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("expense deleted", zap.Int64("id", id))
	return nil
}

func (s *ExpenseService) GetExpensesByCategory(ctx context.Context, q *dto.StatsQuery) ([]models.CategoryTotal, error) {
	return s.store.TotalsByCategory(ctx, q.StartDate, q.EndDate)
}
