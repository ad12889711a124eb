package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"alumni-connect-backend/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput checks the validate tags of in and reports the first failing
// field as a constraint violation on entity.
func validateInput(entity string, in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return domain.Violation(entity, fe.Field(), formatValidationError(fe))
	}
	return domain.Violation(entity, "", err.Error())
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must be at least " + e.Param()
	case "lte":
		return "must be at most " + e.Param()
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "datetime":
		return fmt.Sprintf("must be a date in %s format", e.Param())
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "failed " + e.Tag() + " validation"
	}
}
