// Package validation provides the contact-email rule and request validation.
package validation

import (
	"fmt"
	"strings"
)

// EmailError reports an email address rejected at the submission boundary.
type EmailError struct {
	Email   string
	Message string
}

func (e *EmailError) Error() string {
	return fmt.Sprintf("invalid email %q: %s", e.Email, e.Message)
}

// FieldError is a single failed rule on a request field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// RequestError collects the field errors of a rejected request.
type RequestError struct {
	Fields []FieldError
}

func (e *RequestError) Error() string {
	if len(e.Fields) == 0 {
		return "validation error: invalid request"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s - %s", f.Field, f.Message))
	}
	return "validation error: " + strings.Join(parts, "; ")
}
