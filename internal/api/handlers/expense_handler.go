package handlers

import (
	"expenso/internal/apperr"
	"expenso/internal/dto"
	"expenso/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ExpenseHandler translates HTTP requests into service calls. Failures are
// returned, never rendered here; the app-level error handler owns the wire
// shape of every error.
type ExpenseHandler struct {
	expenses *service.ExpenseService
	logger   *zap.Logger
}

func NewExpenseHandler(expenses *service.ExpenseService, logger *zap.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		expenses: expenses,
		logger:   logger,
	}
}

func (h *ExpenseHandler) Create(c *fiber.Ctx) error {
	input, fields := dto.ParseCreateExpense(c.Body())
	if fields != nil {
		return apperr.Validation(fields)
	}

	exp, err := h.expenses.CreateExpense(c.Context(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewExpenseResponse(exp))
}

func (h *ExpenseHandler) GetByID(c *fiber.Ctx) error {
	id, err := dto.ParseExpenseID(c.Params("id"))
	if err != nil {
		return err
	}

	exp, err := h.expenses.GetExpenseByID(c.Context(), id)
	if err != nil {
		return err
	}
	if exp == nil {
		return apperr.Newf(apperr.KindNotFound, "expense with id %d not found", id)
	}

	return c.JSON(dto.NewExpenseResponse(exp))
}

func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	query, fields := dto.ParseListQuery(c.Queries())
	if fields != nil {
		return apperr.Validation(fields)
	}

	result, err := h.expenses.ListExpenses(c.Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(dto.NewListExpensesResponse(result.Expenses, result.Total, result.Limit, result.Offset))
}

func (h *ExpenseHandler) Update(c *fiber.Ctx) error {
	id, err := dto.ParseExpenseID(c.Params("id"))
	if err != nil {
		return err
	}

	patch, fields := dto.ParseUpdateExpense(c.Body())
	if fields != nil {
		return apperr.Validation(fields)
	}

	exp, err := h.expenses.UpdateExpense(c.Context(), id, patch)
	if err != nil {
		return err
	}

	return c.JSON(dto.NewExpenseResponse(exp))
}

func (h *ExpenseHandler) Delete(c *fiber.Ctx) error {
	id, err := dto.ParseExpenseID(c.Params("id"))
	if err != nil {
		return err
	}

	if err := h.expenses.DeleteExpense(c.Context(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ExpenseHandler) CategoryStats(c *fiber.Ctx) error {
	query, fields := dto.ParseStatsQuery(c.Queries())
	if fields != nil {
		return apperr.Validation(fields)
	}

	totals, err := h.expenses.GetExpensesByCategory(c.Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(dto.NewCategoryTotalsResponse(totals))
}
