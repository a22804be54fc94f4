// Package validation validates tagged structs with go-playground/validator
// and turns its errors into readable field messages.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldError is a single failed field.
type FieldError struct {
	Field   string
	Message string
}

// Errors is the list of failed fields of one struct.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// Struct validates v. It returns nil or Errors; errors other than
// validation failures (e.g. v is not a struct) are returned as is.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	return toErrors(verrs)
}

func toErrors(verrs validator.ValidationErrors) Errors {
	out := make(Errors, 0, len(verrs))
	for _, e := range verrs {
		field := e.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}

		var message string
		switch e.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s", field, e.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", field, e.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of [%s]", field, e.Param())
		case "hostname_port":
			message = fmt.Sprintf("%s must be host:port", field)
		case "required_with":
			message = fmt.Sprintf("%s is required when %s is set", field, e.Param())
		default:
			message = fmt.Sprintf("%s is invalid (%s)", field, e.Tag())
		}
		out = append(out, FieldError{Field: field, Message: message})
	}
	return out
}
