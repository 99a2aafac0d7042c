package utils

import (
	goerrors "errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"authrelay/internal/shared/errors"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)

// FormatBindingError converts a request binding failure into a
// validation error with one user-friendly message per failed field.
func FormatBindingError(err error) error {
	var validationErrors validator.ValidationErrors
	if !goerrors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return errors.NewValidationError("invalid request body")
	}

	var errorMessages []string
	for _, fieldError := range validationErrors {
		errorMessages = append(errorMessages, getFieldErrorMessage(fieldError))
	}

	return errors.NewValidationError(strings.Join(errorMessages, "; "))
}

// getFieldErrorMessage returns a user-friendly error message for a field validation error
func getFieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "slug":
		return fmt.Sprintf("%s must contain only lowercase letters, digits, '-' and '_'", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// IsValidSlug reports whether s is a well-formed application slug.
func IsValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}
