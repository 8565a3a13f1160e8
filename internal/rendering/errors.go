package rendering

import "fmt"

// embeddedSource names the built-in template in errors.
const embeddedSource = "embedded"

// TemplateError reports a report template that could not be loaded, parsed
// or executed. Source is "embedded" or the override file path.
type TemplateError struct {
	Source  string
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	msg := fmt.Sprintf("report template %s: %s", e.Source, e.Message)
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError reports a rendered report that could not be converted to
// another format.
type RenderError struct {
	Format string
	Cause  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("could not derive %s report: %v", e.Format, e.Cause)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
