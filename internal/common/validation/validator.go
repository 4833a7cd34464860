package validation

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"

	"service-gateway/internal/common/errors"
)

var (
	serviceNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	pathPattern        = regexp.MustCompile(`^/[a-zA-Z0-9/_.-]*$`)
)

// Validator wraps go-playground/validator with the gateway's custom tags
type Validator struct {
	validate *validator.Validate
}

// FieldError is one failed rule on one field
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// New creates a validator with the gateway tags registered:
// service_name, endpoint_pattern, cron_expression and http_method
func New() *Validator {
	v := validator.New()
	registerGatewayValidators(v)

	// report yaml/json names so errors match the route document
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"yaml", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	return &Validator{validate: v}
}

// Struct validates s against its struct tags
func (v *Validator) Struct(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		return v.toAppError(err)
	}
	return nil
}

// Var validates a single value against tag
func (v *Validator) Var(field interface{}, tag string) error {
	if err := v.validate.Var(field, tag); err != nil {
		return v.toAppError(err)
	}
	return nil
}

// FieldErrors returns every failed rule for s, or nil when s is valid
func (v *Validator) FieldErrors(s interface{}) []FieldError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	return extractFieldErrors(err)
}

func (v *Validator) toAppError(err error) error {
	fieldErrors := extractFieldErrors(err)
	messages := make([]string, len(fieldErrors))
	for i, fe := range fieldErrors {
		messages[i] = fe.Message
	}

	if len(messages) == 1 {
		return errors.ValidationError(messages[0]).WithContext("errors", messages)
	}
	return errors.ValidationError(fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))).
		WithContext("errors", messages)
}

func extractFieldErrors(err error) []FieldError {
	var validationErrs validator.ValidationErrors
	if !stderrors.As(err, &validationErrs) {
		return []FieldError{{Field: "unknown", Tag: "error", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		out = append(out, FieldError{
			Field:   fe.Namespace(),
			Tag:     fe.Tag(),
			Value:   fmt.Sprintf("%v", fe.Value()),
			Param:   fe.Param(),
			Message: formatFieldError(fe),
		})
	}
	return out
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("field '%s' is required", field)
	case "url":
		return fmt.Sprintf("field '%s' must be a valid URL", field)
	case "min":
		return fmt.Sprintf("field '%s' must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("field '%s' must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("field '%s' must be one of: %s", field, fe.Param())
	case "service_name":
		return fmt.Sprintf("field '%s' must contain only alphanumeric characters, hyphens and underscores", field)
	case "endpoint_pattern":
		return fmt.Sprintf("field '%s' must be a path pattern starting with /", field)
	case "cron_expression":
		return fmt.Sprintf("field '%s' must be a valid cron expression", field)
	case "http_method":
		return fmt.Sprintf("field '%s' must be a valid HTTP method", field)
	default:
		return fmt.Sprintf("field '%s' failed validation: %s", field, fe.Tag())
	}
}

// CronParser accepts standard five-field expressions plus descriptors such
// as @every 5m
var CronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

func registerGatewayValidators(v *validator.Validate) {
	_ = v.RegisterValidation("service_name", func(fl validator.FieldLevel) bool {
		return IsValidServiceName(fl.Field().String())
	})

	_ = v.RegisterValidation("endpoint_pattern", func(fl validator.FieldLevel) bool {
		return strings.HasPrefix(fl.Field().String(), "/")
	})

	_ = v.RegisterValidation("cron_expression", func(fl validator.FieldLevel) bool {
		_, err := CronParser.Parse(fl.Field().String())
		return err == nil
	})

	_ = v.RegisterValidation("http_method", func(fl validator.FieldLevel) bool {
		return IsValidMethod(fl.Field().String())
	})
}

var globalValidator = New()

// ValidateStruct validates s with the shared validator
func ValidateStruct(s interface{}) error {
	return globalValidator.Struct(s)
}

// ValidateVar validates a single value with the shared validator
func ValidateVar(field interface{}, tag string) error {
	return globalValidator.Var(field, tag)
}
