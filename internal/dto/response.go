package dto

import (
	"time"

	"expenso/internal/apperr"
	"expenso/internal/models"

	"github.com/shopspring/decimal"
)

type ExpenseResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Category  string          `json:"category"`
	Date      string          `json:"date"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
}

func NewExpenseResponse(e *models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:        e.ID,
		Name:      e.Name,
		Amount:    e.Amount,
		Currency:  e.Currency,
		Category:  e.Category,
		Date:      e.Date.UTC().Format(time.RFC3339),
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type Pagination struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

type ListExpensesResponse struct {
	Data       []ExpenseResponse `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

func NewListExpensesResponse(expenses []*models.Expense, total int64, limit, offset int) ListExpensesResponse {
	data := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		data[i] = NewExpenseResponse(e)
	}
	return ListExpensesResponse{
		Data:       data,
		Pagination: Pagination{Total: total, Limit: limit, Offset: offset},
	}
}

type CategoryTotalResponse struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

func NewCategoryTotalsResponse(totals []models.CategoryTotal) []CategoryTotalResponse {
	out := make([]CategoryTotalResponse, len(totals))
	for i, t := range totals {
		out[i] = CategoryTotalResponse{Category: t.Category, Total: t.Total}
	}
	return out
}

// ErrorResponse is the uniform failure shape. Detail carries the internal
// cause and is only populated outside production.
type ErrorResponse struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
	Detail  string              `json:"detail,omitempty"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Timestamp   string `json:"timestamp"`
}
