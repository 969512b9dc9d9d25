package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs the payload's `validate` tags and flattens the
// failures into one human-readable message for the error envelope.
func ValidateStruct(payload interface{}) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var messages []string
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			messages = append(messages, "Valid email is required")
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("Invalid %s", strings.ToLower(fe.Field())))
		default:
			messages = append(messages, fmt.Sprintf("Invalid %s", strings.ToLower(fe.Field())))
		}
	}
	return fmt.Errorf("%s", strings.Join(messages, "; "))
}
