package mailer

import "fmt"

// DeliveryError represents a failed SMTP send.
type DeliveryError struct {
	Recipient string
	Message   string
	Cause     error
}

func (e *DeliveryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to send email to %s: %s: %v", e.Recipient, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to send email to %s: %s", e.Recipient, e.Message)
}

func (e *DeliveryError) Unwrap() error {
	return e.Cause
}
