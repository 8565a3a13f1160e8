package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/strategy-profiler/internal/config"
	"github.com/jonathan/strategy-profiler/internal/schemas"
	"github.com/jonathan/strategy-profiler/internal/types"
	"github.com/jonathan/strategy-profiler/internal/validation"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"credentials", &ErrInvalidCredentials{}, http.StatusUnauthorized},
		{"not found", &ErrNotFound{Resource: "result", ID: "x"}, http.StatusNotFound},
		{"validation", &ErrValidation{Field: "f", Message: "m"}, http.StatusBadRequest},
		{"email", &validation.EmailError{Email: "x", Message: "m"}, http.StatusBadRequest},
		{"request", &validation.RequestError{}, http.StatusBadRequest},
		{"schema", &schemas.ValidationError{}, http.StatusBadRequest},
		{"answer shape", &types.AnswerShapeError{QuestionID: "q"}, http.StatusBadRequest},
		{"wrapped", fmt.Errorf("decode: %w", &ErrValidation{}), http.StatusBadRequest},
		{"unavailable", &ErrUnavailable{Feature: "x"}, http.StatusServiceUnavailable},
		{"admin disabled", config.ErrAdminDisabled, http.StatusServiceUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "result not found: abc", (&ErrNotFound{Resource: "result", ID: "abc"}).Error())
	assert.Equal(t, "validation error: limit - must be positive", (&ErrValidation{Field: "limit", Message: "must be positive"}).Error())
	assert.Equal(t, "results store is not configured", (&ErrUnavailable{Feature: "results store"}).Error())
}

func TestErrorBody(t *testing.T) {
	body := errorBody(&validation.RequestError{Fields: []validation.FieldError{{Field: "email", Rule: "contact_email", Message: "bad"}}})
	assert.Equal(t, "validation error", body["error"])
	assert.Len(t, body["details"], 1)

	body = errorBody(&schemas.ValidationError{Errors: []schemas.FieldError{{Field: "(root)", Message: "responses is required"}}})
	assert.Equal(t, "responses document does not match schema", body["error"])

	body = errorBody(&ErrNotFound{Resource: "section", ID: "9"})
	assert.Equal(t, "section not found: 9", body["error"])
	assert.NotContains(t, body, "details")
}
