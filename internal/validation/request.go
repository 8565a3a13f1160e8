package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ContactEmailTag is the struct tag rule backed by ValidateEmail.
const ContactEmailTag = "contact_email"

// Validator validates request structs, reporting fields by their JSON names.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the contact_email rule registered.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation(ContactEmailTag, func(fl validator.FieldLevel) bool {
		_, err := ValidateEmail(fl.Field().String())
		return err == nil
	})
	return &Validator{validate: v}
}

// Struct validates s and converts failures into a *RequestError.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &RequestError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: describe(fe),
		})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case ContactEmailTag:
		return "please enter a valid email address"
	default:
		return "failed " + fe.Tag()
	}
}
