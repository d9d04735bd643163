package rest

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func ValidateStruct(payload any) map[string]string {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			fieldName := strings.ToLower(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				errors[fieldName] = fmt.Sprintf("The %s field is required.", fieldError.Field())
			case "email":
				errors[fieldName] = fmt.Sprintf("The %s must be a valid email address.", fieldError.Field())
			default:
				errors[fieldName] = fmt.Sprintf("The %s field is invalid.", fieldError.Field())
			}
		}
	}

	return errors
}
