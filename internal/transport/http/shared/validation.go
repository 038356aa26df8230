package shared

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"hrkpi/internal/domain/apperror"
	"hrkpi/internal/transport/http/api"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validator collects field-keyed messages from struct tags and manual checks.
type Validator struct {
	fields map[string][]string
}

func NewValidator() *Validator {
	return &Validator{fields: map[string][]string{}}
}

func (v *Validator) Add(field, message string) {
	field = strings.TrimSpace(field)
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	if field == "" {
		field = apperror.FieldMessage
	}
	v.fields[field] = append(v.fields[field], message)
}

func (v *Validator) Required(field, value, message string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, message)
	}
}

// Struct runs the validate tags of payload.
func (v *Validator) Struct(payload any) {
	err := validate.Struct(payload)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		v.Add(apperror.FieldMessage, "Invalid request payload")
		return
	}
	for _, fe := range fieldErrs {
		v.Add(fe.Field(), tagMessage(fe))
	}
}

func (v *Validator) HasIssues() bool {
	return len(v.fields) > 0
}

func (v *Validator) Err() error {
	if !v.HasIssues() {
		return nil
	}
	return apperror.Validation(v.fields)
}

// Reject writes the collected issues and reports whether it did.
func (v *Validator) Reject(w http.ResponseWriter, requestID string) bool {
	if !v.HasIssues() {
		return false
	}
	api.Error(w, v.Err(), requestID)
	return true
}

func tagMessage(fe validator.FieldError) string {
	label := humanize(fe.Field())
	numeric := isNumeric(fe.Kind())
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return label + " must be a valid email address"
	case "uuid", "uuid4":
		return label + " must be a valid id"
	case "min":
		if numeric {
			return fmt.Sprintf("%s must be at least %s", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		if numeric {
			return fmt.Sprintf("%s must be at most %s", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return label + " is invalid"
	}
}

func isNumeric(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// humanize turns a JSON field name such as employeeId into "Employee id".
func humanize(field string) string {
	if field == "" {
		return "Value"
	}
	var b strings.Builder
	for i, r := range field {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
