package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKind_HTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		want int
	}{
		{"validation", KindValidation, http.StatusBadRequest},
		{"not found", KindNotFound, http.StatusNotFound},
		{"bad request", KindBadRequest, http.StatusBadRequest},
		{"conflict", KindConflict, http.StatusConflict},
		{"internal", KindInternal, http.StatusInternalServerError},
		{"unknown kind", Kind(99), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kind.HTTPStatus(); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidation_KeepsAllFields(t *testing.T) {
	fields := []FieldError{
		{Field: "name", Message: "name is required"},
		{Field: "amount", Message: "amount must be positive"},
	}

	err := Validation(fields)

	if err.Kind != KindValidation {
		t.Errorf("Kind = %v, want KindValidation", err.Kind)
	}
	if len(err.Fields) != 2 {
		t.Fatalf("len(Fields) = %d, want 2", len(err.Fields))
	}
	if err.Fields[1].Field != "amount" {
		t.Errorf("Fields[1].Field = %q, want %q", err.Fields[1].Field, "amount")
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(cause, "create expense")

	if !errors.Is(err, cause) {
		t.Error("wrapped error should match its cause via errors.Is")
	}
	if err.Kind != KindInternal {
		t.Errorf("Kind = %v, want KindInternal", err.Kind)
	}
}

func TestIsKind_ThroughWrapping(t *testing.T) {
	inner := Newf(KindNotFound, "expense with id %d not found", 42)
	outer := fmt.Errorf("update expense: %w", inner)

	if !IsNotFound(outer) {
		t.Error("IsNotFound should see through fmt.Errorf wrapping")
	}
	if IsKind(outer, KindConflict) {
		t.Error("IsKind should not match a different kind")
	}
}
