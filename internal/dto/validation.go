package dto

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// BindingError turns a gin binding failure into a field-level error list.
func BindingError(err error) ErrorListResponse {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ErrorListResponse{Error: "invalid request body: " + err.Error()}
	}

	out := ErrorListResponse{Error: "validation failed"}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, ValidationError{
			Field:   fe.Field(),
			Message: describe(fe),
		})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
