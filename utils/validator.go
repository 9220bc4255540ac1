package utils

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var Validate = validator.New()

// FormatValidationErrors turns validator output into a single readable line.
func FormatValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email")
		case "url":
			msgs = append(msgs, field+" must be a valid URL")
		case "min":
			msgs = append(msgs, field+" must be at least "+e.Param())
		case "max":
			msgs = append(msgs, field+" must be at most "+e.Param())
		case "oneof":
			msgs = append(msgs, field+" must be one of: "+e.Param())
		case "datetime":
			msgs = append(msgs, field+" must match "+e.Param())
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}
