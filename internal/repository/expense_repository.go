package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"expenso/internal/apperr"
	"expenso/internal/models"

	"github.com/Masterminds/squirrel"
	"go.uber.org/zap"
	"modernc.org/sqlite"
)

// sqliteTimeLayout is the canonical timestamp text used for every bound date
// parameter. It matches the format CURRENT_TIMESTAMP writes, so lexicographic
// comparison in the store equals chronological comparison.
const sqliteTimeLayout = "2006-01-02 15:04:05"

// sqliteConstraintCode is the primary SQLite result code for constraint
// violations; extended codes carry it in the low byte.
const sqliteConstraintCode = 19

var expenseColumns = []string{"id", "name", "amount", "currency", "category", "date", "created_at", "updated_at"}

// Filter is the optional predicate set for listing and counting. Each field
// toggles its clause by presence, not by value.
type Filter struct {
	Category  *string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     *int
	Offset    *int
}

// ExpenseRepository owns all SQL against the expenses table. No other
// component constructs queries.
type ExpenseRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewExpenseRepository(db *sql.DB, logger *zap.Logger) *ExpenseRepository {
	return &ExpenseRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new expense and re-reads it by the assigned id: the store
// generates id, created_at, updated_at and possibly date, so the inserted
// values are not known to the caller beforehand.
func (r *ExpenseRepository) Create(ctx context.Context, exp *models.NewExpense) (*models.Expense, error) {
	cols := []string{"name", "amount", "currency", "category"}
	vals := []any{exp.Name, exp.Amount, exp.Currency, exp.Category}
	if exp.Date != nil {
		cols = append(cols, "date")
		vals = append(vals, toDBTime(*exp.Date))
	}

	query, args, err := squirrel.Insert("expenses").
		Columns(cols...).
		Values(vals...).
		ToSql()
	if err != nil {
		return nil, apperr.Wrap(err, "build insert query")
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, storeError(err, "create expense")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, apperr.Wrap(err, "read inserted expense id")
	}

	r.logger.Debug("expense created", zap.Int64("id", id), zap.String("category", exp.Category))
	return r.GetByID(ctx, id)
}

// GetByID is a point lookup; a missing row is the only non-internal failure.
func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*models.Expense, error) {
	query, args, err := squirrel.Select(expenseColumns...).
		From("expenses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, apperr.Wrap(err, "build select query")
	}

	exp, err := scanExpense(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Newf(apperr.KindNotFound, "expense with id %d not found", id)
	}
	if err != nil {
		return nil, storeError(err, "get expense")
	}
	return exp, nil
}

// List returns expenses matching the filter, most recent date first. Only the
// filter terms actually supplied appear in the predicate.
func (r *ExpenseRepository) List(ctx context.Context, f Filter) ([]*models.Expense, error) {
	qb := applyFilter(squirrel.Select(expenseColumns...).From("expenses"), f).
		OrderBy("date DESC")

	if f.Limit != nil {
		qb = qb.Limit(uint64(*f.Limit))
		if f.Offset != nil {
			qb = qb.Offset(uint64(*f.Offset))
		}
	} else if f.Offset != nil {
		// SQLite only honors OFFSET next to a LIMIT clause; -1 means unbounded.
		qb = qb.Suffix("LIMIT -1 OFFSET ?", *f.Offset)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, apperr.Wrap(err, "build list query")
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError(err, "list expenses")
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		exp, err := scanExpense(rows)
		if err != nil {
			return nil, storeError(err, "scan expense row")
		}
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(err, "iterate expense rows")
	}
	return expenses, nil
}

// Count returns how many rows match the filter predicate, ignoring Limit and
// Offset. Pagination metadata is built from this.
func (r *ExpenseRepository) Count(ctx context.Context, f Filter) (int64, error) {
	query, args, err := applyFilter(squirrel.Select("COUNT(*)").From("expenses"), f).ToSql()
	if err != nil {
		return 0, apperr.Wrap(err, "build count query")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, storeError(err, "count expenses")
	}
	return total, nil
}

// Update loads the current row, merges present patch fields over it and
// persists the result, then re-reads so the trigger-refreshed updated_at is
// returned. Concurrent updates to the same id race between read and write;
// last writer wins.
func (r *ExpenseRepository) Update(ctx context.Context, id int64, patch *models.ExpensePatch) (*models.Expense, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := *current
	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.Amount != nil {
		merged.Amount = *patch.Amount
	}
	if patch.Currency != nil {
		merged.Currency = *patch.Currency
	}
	if patch.Category != nil {
		merged.Category = *patch.Category
	}
	if patch.Date != nil {
		merged.Date = *patch.Date
	}

	query, args, err := squirrel.Update("expenses").
		Set("name", merged.Name).
		Set("amount", merged.Amount).
		Set("currency", merged.Currency).
		Set("category", merged.Category).
		Set("date", toDBTime(merged.Date)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, apperr.Wrap(err, "build update query")
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, storeError(err, "update expense")
	}

	r.logger.Debug("expense updated", zap.Int64("id", id))
	return r.GetByID(ctx, id)
}

// Delete removes the row. The affected-row count is the not-found signal, so
// there is no race between an existence check and the delete.
func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := squirrel.Delete("expenses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return apperr.Wrap(err, "build delete query")
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return storeError(err, "delete expense")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return apperr.Wrap(err, "read affected rows")
	}
	if affected == 0 {
		return apperr.Newf(apperr.KindNotFound, "expense with id %d not found", id)
	}

	r.logger.Debug("expense deleted", zap.Int64("id", id))
	return nil
}

// TotalsByCategory sums amounts per category over the optional date range,
// largest total first.
func (r *ExpenseRepository) TotalsByCategory(ctx context.Context, startDate, endDate *time.Time) ([]models.CategoryTotal, error) {
	qb := applyFilter(
		squirrel.Select("category", "SUM(amount) AS total").From("expenses"),
		Filter{StartDate: startDate, EndDate: endDate},
	).GroupBy("category").OrderBy("total DESC")

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, apperr.Wrap(err, "build totals query")
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError(err, "total expenses by category")
	}
	defer rows.Close()

	var totals []models.CategoryTotal
	for rows.Next() {
		var t models.CategoryTotal
		if err := rows.Scan(&t.Category, &t.Total); err != nil {
			return nil, storeError(err, "scan category total")
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(err, "iterate category totals")
	}
	return totals, nil
}

// applyFilter folds the present filter terms into a conjunctive predicate.
func applyFilter(qb squirrel.SelectBuilder, f Filter) squirrel.SelectBuilder {
	if f.Category != nil {
		qb = qb.Where(squirrel.Eq{"category": *f.Category})
	}
	if f.StartDate != nil {
		qb = qb.Where(squirrel.GtOrEq{"date": toDBTime(*f.StartDate)})
	}
	if f.EndDate != nil {
		qb = qb.Where(squirrel.LtOrEq{"date": toDBTime(*f.EndDate)})
	}
	return qb
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	var e models.Expense
	if err := row.Scan(
		&e.ID, &e.Name, &e.Amount, &e.Currency, &e.Category, &e.Date, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

func toDBTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

// storeError wraps a store failure into the taxonomy at the boundary where it
// occurred: constraint violations become Conflict, everything else Internal.
func storeError(err error, op string) error {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqliteConstraintCode {
		return apperr.New(apperr.KindConflict, op+": constraint violation")
	}
	return apperr.Wrap(err, op)
}
