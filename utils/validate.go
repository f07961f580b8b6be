package utils

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var nameToken = regexp.MustCompile(`^[a-z0-9_]+$`)

// Validate is the shared validator instance. The custom "nametoken" rule
// enforces the lowercase token form role and permission names are stored in.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("nametoken", func(fl validator.FieldLevel) bool {
		return nameToken.MatchString(fl.Field().String())
	})
	return v
}
