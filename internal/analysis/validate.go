package analysis

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-fit/internal/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateRequest checks that req carries resume text and exactly one job source,
// and that a job URL is an absolute http(s) URL.
func ValidateRequest(req types.AnalysisRequest) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	return &RequestError{Field: fe.Field(), Message: describe(fe)}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_without":
		return "either job_url or job_description is required"
	case "excluded_with":
		return "provide either job_url or job_description, not both"
	case "http_url":
		return "must be an absolute http or https URL"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

// ValidateJobURL checks that rawURL is an absolute http or https URL.
func ValidateJobURL(rawURL string) error {
	if err := validate.Var(rawURL, "required,http_url"); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return &RequestError{Field: "job_url", Message: describe(fieldErrs[0])}
		}
		return err
	}
	return nil
}
