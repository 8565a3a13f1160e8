package types

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// SubmitRequest is the body of a questionnaire submission.
// The contact_email rule is registered by the validation package.
type SubmitRequest struct {
	Email     string                     `json:"email" validate:"contact_email"`
	Responses map[string]json.RawMessage `json:"responses" validate:"required"`
}

// PreviewRequest is the body of a score-and-render request; no email is needed.
type PreviewRequest struct {
	Responses map[string]json.RawMessage `json:"responses" validate:"required"`
}

// AdminLoginRequest is the body of an admin login.
type AdminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// AdminLoginResponse carries the issued admin token.
type AdminLoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // seconds
}

// Validate validates the AdminLoginRequest using the validator.
func (r *AdminLoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the PreviewRequest using the validator.
func (r *PreviewRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// QuestionnaireResponse is the full questionnaire as served to clients.
type QuestionnaireResponse struct {
	Sections       []Section `json:"sections"`
	TotalSections  int       `json:"total_sections"`
	TotalQuestions int       `json:"total_questions"`
}

// SectionResponse is one questionnaire page with its navigation state.
// Index is zero-based; Progress is (Index+1)/Total.
type SectionResponse struct {
	Index       int     `json:"index"`
	Total       int     `json:"total"`
	Progress    float64 `json:"progress"`
	HasPrevious bool    `json:"has_previous"`
	HasNext     bool    `json:"has_next"`
	Section     Section `json:"section"`
}
