package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/deppfellow/jersey-rota/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
//  1. c.Bind(payload) populates the struct from path params, query (for
//     GET/DELETE) and the JSON body.
//  2. payload.Validate() applies validation rules.
//  3. Either failure returns a 422 *errs.HTTPError, with field-level errors
//     when they can be attributed.
//
// payload must be a pointer to a struct.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return bindError(err)
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewUnprocessableEntityError(msg, true, fieldErrors)
	}

	return nil
}

// bindError converts an Echo bind failure (malformed JSON, wrong JSON type,
// non-numeric path id) into a 422.
func bindError(err error) *errs.HTTPError {
	message := "Invalid request"
	var cause error = err

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if m, ok := he.Message.(string); ok && m != "" {
			message = m
		}
		if he.Internal != nil {
			cause = he.Internal
		}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(cause, &typeErr) && typeErr.Field != "" {
		return errs.NewUnprocessableEntityError("Validation failed", true, []errs.FieldError{
			{
				Field: typeErr.Field,
				Error: fmt.Sprintf("must be of type %s", typeErr.Type.String()),
			},
		})
	}

	return errs.NewUnprocessableEntityError(message, false, nil)
}

// validateStruct calls v.Validate() and extracts field errors if validation fails.
func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var customValidationErrors CustomValidationErrors
	if errors.As(err, &customValidationErrors) {
		for _, err := range customValidationErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: err.Field,
				Error: err.Message,
			})
		}
		return "Validation failed", fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// Not a field error; still report it rather than letting it pass.
		return "Validation failed: " + err.Error(), []errs.FieldError{}
	}

	for _, err := range validationErrors {
		var msg string

		switch err.Tag() {
		case "required":
			msg = "is required"

		case "min":
			if err.Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", err.Param())
			}

		case "max":
			if err.Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", err.Param())
			}

		case "gt":
			msg = fmt.Sprintf("must be greater than %s", err.Param())

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", err.Param())

		default:
			if err.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", err.Field(), err.Tag(), err.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", err.Field(), err.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: strings.ToLower(err.Field()),
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}
