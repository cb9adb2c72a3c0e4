// Package validation checks structs against their `validate` tags.
//
// It uses the `validator` library and turns its errors into
// field-level messages that read well in a log line or a CLI error.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared; validator caches struct metadata per instance.
var validate = validator.New()

// FieldError is one failed rule on one field.
type FieldError struct {
	Field string
	Error string
}

// FieldErrors is returned by Struct when any rule fails.
type FieldErrors []FieldError

func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for _, fe := range f {
		parts = append(parts, fe.Field+" "+fe.Error)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Struct validates v and returns FieldErrors on failure.
// Errors that are not about field rules (a nil or non-struct v) are returned as is.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	return extractValidationError(validationErrors)
}

func extractValidationError(validationErrors validator.ValidationErrors) FieldErrors {
	fieldErrors := make(FieldErrors, 0, len(validationErrors))

	for _, err := range validationErrors {
		var msg string

		switch err.Tag() {
		case "required":
			msg = "is required"

		case "min":
			if err.Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", err.Param())
			}

		case "max":
			if err.Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", err.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s, got %q", err.Param(), fmt.Sprint(err.Value()))

		default:
			if err.Param() != "" {
				msg = fmt.Sprintf("failed %s:%s", err.Tag(), err.Param())
			} else {
				msg = fmt.Sprintf("failed %s", err.Tag())
			}
		}

		fieldErrors = append(fieldErrors, FieldError{
			Field: fieldPath(err.Namespace()),
			Error: msg,
		})
	}

	return fieldErrors
}

// fieldPath turns "ObservabilityConfig.Logging.Level" into "logging.level".
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.ToLower(strings.Join(parts, "."))
}
