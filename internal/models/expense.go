package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is one recorded monetary transaction. The store assigns ID and both
// timestamps; UpdatedAt is refreshed by a database trigger on every mutation.
type Expense struct {
	ID        int64           `db:"id"`
	Name      string          `db:"name"`
	Amount    decimal.Decimal `db:"amount"`
	Currency  string          `db:"currency"`
	Category  string          `db:"category"`
	Date      time.Time       `db:"date"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// NewExpense is validated input for creating an expense. A nil Date means the
// store defaults it to the creation instant.
type NewExpense struct {
	Name     string
	Amount   decimal.Decimal
	Currency string
	Category string
	Date     *time.Time
}

// ExpensePatch is a partial update: nil fields keep their current value.
type ExpensePatch struct {
	Name     *string
	Amount   *decimal.Decimal
	Currency *string
	Category *string
	Date     *time.Time
}

// CategoryTotal is one row of the per-category aggregate.
type CategoryTotal struct {
	Category string          `db:"category"`
	Total    decimal.Decimal `db:"total"`
}
