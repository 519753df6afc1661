// Package dto holds the wire shapes and the validation pipeline: typed parse
// functions that either return coerced values or the full list of field
// violations. Downstream code never re-parses raw input.
package dto

import (
	"encoding/json"
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"expenso/internal/apperr"
	"expenso/internal/models"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts go on the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

const dateOnlyLayout = "2006-01-02"

// expensePayload is the decode target shared by create and update bodies.
// Pointers distinguish "absent" from "present but invalid".
type expensePayload struct {
	Name     *string          `json:"name"`
	Amount   *decimal.Decimal `json:"amount"`
	Currency *string          `json:"currency"`
	Category *string          `json:"category"`
	Date     *string          `json:"date"`
}

// ParseCreateExpense validates a create body. All violations are collected
// and reported together.
func ParseCreateExpense(body []byte) (*models.NewExpense, []apperr.FieldError) {
	var p expensePayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, decodeFieldErrors(err)
	}

	var fields []apperr.FieldError
	if p.Name == nil || strings.TrimSpace(*p.Name) == "" {
		fields = append(fields, apperr.FieldError{Field: "name", Message: "name is required"})
	}
	switch {
	case p.Amount == nil:
		fields = append(fields, apperr.FieldError{Field: "amount", Message: "amount is required"})
	case !p.Amount.IsPositive():
		fields = append(fields, apperr.FieldError{Field: "amount", Message: "amount must be positive"})
	}
	switch {
	case p.Currency == nil || *p.Currency == "":
		fields = append(fields, apperr.FieldError{Field: "currency", Message: "currency is required"})
	case !currencyPattern.MatchString(*p.Currency):
		fields = append(fields, apperr.FieldError{Field: "currency", Message: "currency must be a 3-letter uppercase code"})
	}
	if p.Category == nil || strings.TrimSpace(*p.Category) == "" {
		fields = append(fields, apperr.FieldError{Field: "category", Message: "category is required"})
	}

	var date *time.Time
	if p.Date != nil {
		t, err := parseDate(*p.Date)
		if err != nil {
			fields = append(fields, apperr.FieldError{Field: "date", Message: "date must be in YYYY-MM-DD or RFC 3339 format"})
		} else {
			date = &t
		}
	}

	if len(fields) > 0 {
		return nil, fields
	}
	return &models.NewExpense{
		Name:     strings.TrimSpace(*p.Name),
		Amount:   *p.Amount,
		Currency: *p.Currency,
		Category: strings.TrimSpace(*p.Category),
		Date:     date,
	}, nil
}

// expenseFields is the accepted key set of expensePayload; update bodies
// reject anything outside it.
var expenseFields = map[string]struct{}{
	"name": {}, "amount": {}, "currency": {}, "category": {}, "date": {},
}

// ParseUpdateExpense validates a partial-update body. Unknown fields are
// rejected, every present field is checked with the create rules, and a body
// with no recognized fields fails outright.
func ParseUpdateExpense(body []byte) (*models.ExpensePatch, []apperr.FieldError) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, decodeFieldErrors(err)
	}

	var unknown []string
	for k := range raw {
		if _, ok := expenseFields[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		fields := make([]apperr.FieldError, len(unknown))
		for i, name := range unknown {
			fields[i] = apperr.FieldError{Field: name, Message: "unknown field " + name}
		}
		return nil, fields
	}

	var p expensePayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, decodeFieldErrors(err)
	}

	if p.Name == nil && p.Amount == nil && p.Currency == nil && p.Category == nil && p.Date == nil {
		return nil, []apperr.FieldError{{Field: "body", Message: "at least one field must be provided for update"}}
	}

	var fields []apperr.FieldError
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		fields = append(fields, apperr.FieldError{Field: "name", Message: "name must not be empty"})
	}
	if p.Amount != nil && !p.Amount.IsPositive() {
		fields = append(fields, apperr.FieldError{Field: "amount", Message: "amount must be positive"})
	}
	if p.Currency != nil && !currencyPattern.MatchString(*p.Currency) {
		fields = append(fields, apperr.FieldError{Field: "currency", Message: "currency must be a 3-letter uppercase code"})
	}
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		fields = append(fields, apperr.FieldError{Field: "category", Message: "category must not be empty"})
	}

	var date *time.Time
	if p.Date != nil {
		t, err := parseDate(*p.Date)
		if err != nil {
			fields = append(fields, apperr.FieldError{Field: "date", Message: "date must be in YYYY-MM-DD or RFC 3339 format"})
		} else {
			date = &t
		}
	}

	if len(fields) > 0 {
		return nil, fields
	}

	patch := &models.ExpensePatch{
		Amount:   p.Amount,
		Currency: p.Currency,
		Date:     date,
	}
	if p.Name != nil {
		trimmed := strings.TrimSpace(*p.Name)
		patch.Name = &trimmed
	}
	if p.Category != nil {
		trimmed := strings.TrimSpace(*p.Category)
		patch.Category = &trimmed
	}
	return patch, nil
}

// ListQuery is the coerced filter/pagination input for listing expenses.
type ListQuery struct {
	Category  *string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     *int
	Offset    *int
}

// StatsQuery is the coerced date-range input for category aggregates.
type StatsQuery struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// ParseListQuery coerces the list query string. Absent parameters stay nil so
// the repository can toggle predicates by presence.
func ParseListQuery(q map[string]string) (*ListQuery, []apperr.FieldError) {
	var fields []apperr.FieldError
	out := &ListQuery{}

	if v, ok := q["category"]; ok && v != "" {
		out.Category = &v
	}
	out.StartDate, out.EndDate, fields = parseDateRange(q, fields)

	if v, ok := q["limit"]; ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			fields = append(fields, apperr.FieldError{Field: "limit", Message: "limit must be a positive integer"})
		} else {
			out.Limit = &n
		}
	}
	if v, ok := q["offset"]; ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			fields = append(fields, apperr.FieldError{Field: "offset", Message: "offset must be a non-negative integer"})
		} else {
			out.Offset = &n
		}
	}

	if len(fields) > 0 {
		return nil, fields
	}
	return out, nil
}

// ParseStatsQuery coerces the aggregate query string.
func ParseStatsQuery(q map[string]string) (*StatsQuery, []apperr.FieldError) {
	var fields []apperr.FieldError
	out := &StatsQuery{}
	out.StartDate, out.EndDate, fields = parseDateRange(q, fields)
	if len(fields) > 0 {
		return nil, fields
	}
	return out, nil
}

// ParseExpenseID parses a path id. Non-numeric or non-positive values fail
// before any repository access.
func ParseExpenseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.New(apperr.KindBadRequest, "invalid expense id")
	}
	return id, nil
}

func parseDateRange(q map[string]string, fields []apperr.FieldError) (*time.Time, *time.Time, []apperr.FieldError) {
	var start, end *time.Time
	if v, ok := q["startDate"]; ok && v != "" {
		t, err := parseDate(v)
		if err != nil {
			fields = append(fields, apperr.FieldError{Field: "startDate", Message: "startDate must be in YYYY-MM-DD or RFC 3339 format"})
		} else {
			start = &t
		}
	}
	if v, ok := q["endDate"]; ok && v != "" {
		t, err := parseDate(v)
		if err != nil {
			fields = append(fields, apperr.FieldError{Field: "endDate", Message: "endDate must be in YYYY-MM-DD or RFC 3339 format"})
		} else {
			end = &t
		}
	}
	return start, end, fields
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(dateOnlyLayout, s)
}

// decodeFieldErrors turns a JSON decode failure into field-level feedback
// where the decoder tells us which field broke.
func decodeFieldErrors(err error) []apperr.FieldError {
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return []apperr.FieldError{{Field: ute.Field, Message: "invalid type for field " + ute.Field}}
	}
	return []apperr.FieldError{{Field: "body", Message: "request body must be valid JSON"}}
}
