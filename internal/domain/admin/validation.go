package admin

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
)

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// validateRecord runs the struct rules of a record and maps failures onto field keys.
func validateRecord(ctx context.Context, validate *validator.Validate, record any) (*ValidationError, error) {
	err := validate.StructCtx(ctx, record)
	if err == nil {
		return nil, nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil, eris.Wrap(err, "validating record")
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return nil, eris.Wrap(err, "validating record")
	}

	verr := NewValidationError()
	for _, fieldError := range fieldErrors {
		verr.Add(fieldError.Field(), validationMessage(fieldError))
	}
	return verr, nil
}

func validationMessage(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return msgRequired
	case "email":
		return "Enter a valid email address."
	case "url":
		return "Enter a valid URL."
	case "oneof":
		return msgChoice
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fieldError.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fieldError.Param())
	case "lte":
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fieldError.Param())
	default:
		return "Enter a valid value."
	}
}
