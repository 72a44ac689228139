// Package model defines the records the service stores and the request
// payloads that create or change them.
//
// Payloads carry `validate` tags and implement validation.Validatable so the
// handler pipeline can bind and check them before any service call.
package model

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every payload. validator caches struct metadata,
// so one instance is reused rather than built per request.
var validate = newValidator()

// newValidator reports fields by their JSON names so field errors match
// what clients sent.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "param", "query"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return field.Name
	})
	return v
}
