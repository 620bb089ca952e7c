package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/campus-kit/helpdesk/internal/domain"
	apperrors "github.com/campus-kit/helpdesk/pkg/util/errorutil"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("request_type", func(fl validator.FieldLevel) bool {
		return domain.RequestType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("request_priority", func(fl validator.FieldLevel) bool {
		return domain.RequestPriority(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("sender_role", func(fl validator.FieldLevel) bool {
		return domain.SenderRole(fl.Field().String()).Valid()
	})
	return v
}

// validateStruct runs tag validation and reports the first failing field in
// the message and every failure in the details.
func validateStruct(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	details := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fe.Tag()
	}
	return apperrors.NewValidationError(describeFieldError(fieldErrs[0]), details)
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func fieldError(field, message string) error {
	return apperrors.NewValidationError(message, map[string]any{field: "invalid"})
}
