package config

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// Validator returns the shared validator, which reports field errors by
// their environment variable or YAML key names.
func Validator() *validator.Validate {
	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("env"), ",")
			if name == "" {
				name, _, _ = strings.Cut(fld.Tag.Get("yaml"), ",")
			}
			if name == "-" {
				return ""
			}
			return name
		})
	}
	return validate
}
