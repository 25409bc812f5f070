package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ============================================================
// Request schema validation
// ============================================================

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Money compares as a number, calendar days as their wire string.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(domain.Date); ok {
			return d.String()
		}
		return nil
	}, domain.Date{})
	return v
}

// decodeJSON reads one JSON object into dst and validates it.
// Every failure is a validation error.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return bodyError(err)
	}
	if dec.More() {
		return &domain.ErrValidation{Field: "body", Message: "must contain a single JSON object"}
	}
	return validateStruct(dst)
}

func bodyError(err error) error {
	var syntax *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return &domain.ErrValidation{Field: "body", Message: "is required"}
	case errors.As(err, &tooLarge):
		return &domain.ErrValidation{Field: "body", Message: fmt.Sprintf("must not exceed %d bytes", tooLarge.Limit)}
	case errors.As(err, &syntax), errors.Is(err, io.ErrUnexpectedEOF):
		return &domain.ErrValidation{Field: "body", Message: "is not valid JSON"}
	case errors.As(err, &typeErr):
		return &domain.ErrValidation{Field: typeErr.Field, Message: "must be a " + typeErr.Type.String()}
	default:
		return &domain.ErrValidation{Field: "body", Message: err.Error()}
	}
}

// validateStruct runs the validate tags and joins every failure into one
// ValidationErrors.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &domain.ErrValidation{Field: "body", Message: err.Error()}
	}
	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, &domain.ErrValidation{Field: fieldPath(fe), Message: ruleMessage(fe)})
	}
	return out
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func ruleMessage(fe validator.FieldError) string {
	p := fe.Param()
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + p
	case "gt":
		return "must be greater than " + p
	case "gte":
		return "must be at least " + p
	case "lte":
		return "must be at most " + p
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", p)
		}
		return "must be at least " + p
	case "max":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("must be at most %s characters", p)
		case reflect.Slice:
			return fmt.Sprintf("must have at most %s items", p)
		}
		return "must be at most " + p
	case "len":
		return fmt.Sprintf("must be %s characters", p)
	case "ne":
		return "must not be " + p
	case "url":
		return "must be a valid URL"
	case "hexcolor":
		return "must be a hex color"
	case "uppercase":
		return "must be uppercase"
	case "datetime":
		return "must be a date in " + p + " format"
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}
