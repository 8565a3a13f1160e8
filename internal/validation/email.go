package validation

import (
	"strings"

	"github.com/jonathan/strategy-profiler/internal/types"
)

// ValidateEmail applies the submission rule: after trimming, the address
// must be non-empty and contain both "@" and ".". It returns the trimmed address.
func ValidateEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return "", &EmailError{Email: email, Message: "email address is required"}
	}
	if !strings.Contains(trimmed, "@") || !strings.Contains(trimmed, ".") {
		return "", &EmailError{Email: email, Message: "please enter a valid email address"}
	}
	return trimmed, nil
}

// EmailAnswerID is the question id under which the questionnaire collects
// the contact address.
const EmailAnswerID = "email"

// EmailMatchRule names the failed rule when the two email sources disagree.
const EmailMatchRule = "email_match"

// SubmissionEmail picks the contact address of a submission. The top-level
// field wins; when it is empty the email answer in responses is used. Both
// present and different (ignoring case and surrounding space) is rejected
// with a *RequestError.
func SubmissionEmail(field string, responses types.ResponseSet) (string, error) {
	var answer string
	switch a := responses[EmailAnswerID].(type) {
	case types.EmailAnswer:
		answer = a.Address
	case types.TextAnswer:
		answer = a.Text
	}

	field = strings.TrimSpace(field)
	answer = strings.TrimSpace(answer)
	switch {
	case field == "":
		return answer, nil
	case answer != "" && !strings.EqualFold(field, answer):
		return "", &RequestError{Fields: []FieldError{{
			Field:   EmailAnswerID,
			Rule:    EmailMatchRule,
			Message: "email does not match the email answer in responses",
		}}}
	default:
		return field, nil
	}
}
