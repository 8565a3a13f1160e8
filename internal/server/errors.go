package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/strategy-profiler/internal/config"
	"github.com/jonathan/strategy-profiler/internal/schemas"
	"github.com/jonathan/strategy-profiler/internal/types"
	"github.com/jonathan/strategy-profiler/internal/validation"
)

// ErrInvalidCredentials indicates a rejected admin password.
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid password"
}

// ErrNotFound indicates a missing resource.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnavailable indicates a feature whose backing service is not configured.
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var (
		credentials *ErrInvalidCredentials
		notFound    *ErrNotFound
		invalid     *ErrValidation
		unavailable *ErrUnavailable
		email       *validation.EmailError
		request     *validation.RequestError
		schema      *schemas.ValidationError
		shape       *types.AnswerShapeError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &credentials):
		return http.StatusUnauthorized
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &invalid), errors.As(err, &email), errors.As(err, &request),
		errors.As(err, &schema), errors.As(err, &shape):
		return http.StatusBadRequest
	case errors.As(err, &unavailable), errors.Is(err, config.ErrAdminDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
