package services

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
)

var (
	validate = newValidator()
	// textPolicy strips all markup from free text supplied by users
	textPolicy = bluemonday.StrictPolicy()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// validateInput runs struct validation and turns the first failure into a
// user-facing ValidationError
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return model.Validation(err.Error())
	}
	return model.Validation(fieldMessage(verrs[0]))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.Replace(fe.Field(), "_", " ", 1)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", capitalize(field), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", capitalize(field), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", capitalize(field), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", capitalize(field))
	}
	return fmt.Sprintf("%s is invalid", capitalize(field))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// sanitizeText strips markup and surrounding whitespace. Entities escaped by
// the policy are decoded again since the result is stored as plain text.
func sanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}
