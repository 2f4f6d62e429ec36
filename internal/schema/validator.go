// Package schema turns loosely shaped backend JSON into the strict panel
// models and validates the result.
package schema

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// ErrMalformedPayload reports a backend body that cannot be normalized.
var ErrMalformedPayload = errors.New("malformed payload")

var clockPattern = regexp.MustCompile(`^[0-5][0-9]:[0-5][0-9]$`)

// Validator checks normalized models against their struct tags.
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator with the dashboard's custom rules registered.
func New() *Validator {
	v := validator.New()
	// "clock" is a MM:SS display offset.
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return clockPattern.MatchString(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Validate returns an error wrapping ErrMalformedPayload when event breaks a rule.
func (v *Validator) Validate(event any) error {
	if err := v.validate.Struct(event); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return nil
}

var defaultValidator = New()
