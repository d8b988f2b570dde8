// Package validation validates request DTOs with go-playground/validator and
// reports failures as VALIDATION_ERROR app errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"reelhub/internal/models"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// GetValidator returns the singleton validator with the domain tags registered:
// report_reason, report_status, severity and hashtag.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonFieldName)

		_ = validate.RegisterValidation("report_reason", func(fl validator.FieldLevel) bool {
			_, ok := models.ParseReportReason(fl.Field().String())
			return ok
		})
		_ = validate.RegisterValidation("report_status", func(fl validator.FieldLevel) bool {
			_, ok := models.ParseReportStatus(fl.Field().String())
			return ok
		})
		_ = validate.RegisterValidation("severity", func(fl validator.FieldLevel) bool {
			_, ok := models.ParseSeverity(fl.Field().String())
			return ok
		})
		_ = validate.RegisterValidation("hashtag", func(fl validator.FieldLevel) bool {
			return ValidateHashtag(fl.Field().String()) == nil
		})
	})
	return validate
}

// jsonFieldName reports fields by their wire name.
func jsonFieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "query"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Struct validates s and returns a VALIDATION_ERROR naming every bad field.
func Struct(s interface{}) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return models.NewValidationError(err.Error())
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fieldMessage(fe))
	}
	return models.NewValidationError(strings.Join(messages, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "report_reason":
		return fmt.Sprintf("%s is not a valid report reason", field)
	case "report_status":
		return fmt.Sprintf("%s is not a valid report status", field)
	case "severity":
		return fmt.Sprintf("%s is not a valid severity", field)
	case "hashtag":
		return fmt.Sprintf("%s is not a valid hashtag", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
