// Package validation accumulates validation errors.
//
// A Validator is the error-collection state carried by controllers: form
// binding records rejected fields into it and a redirect can hand its errors
// on to the controller that handles the next request.
package validation

import (
	"fmt"
	"strings"
	"time"
)

// FieldError is a validation error tied to a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *FieldError) Error() string {
	return e.Message
}

// Validator accumulates validation errors
type Validator struct {
	errors []error
	prefix string
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		errors: make([]error, 0),
	}
}

// NewValidatorWithPrefix creates a new validator with a prefix for error messages
func NewValidatorWithPrefix(prefix string) *Validator {
	return &Validator{
		errors: make([]error, 0),
		prefix: prefix,
	}
}

// RequireString validates that a string is not empty
func (v *Validator) RequireString(value, name string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.addFieldError(name, "%s is required", name)
	}
	return v
}

// RequireRange validates that a value is within a range
func (v *Validator) RequireRange(value, min, max int, name string) *Validator {
	if value < min || value > max {
		v.addFieldError(name, "%s must be between %d and %d", name, min, max)
	}
	return v
}

// RequireOneOf validates that a value is one of the allowed values
func (v *Validator) RequireOneOf(value string, allowed []string, name string) *Validator {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return v
		}
	}

	v.addFieldError(name, "%s must be one of: %s", name, strings.Join(allowed, ", "))
	return v
}

// RequireDuration validates that a string parses as a positive duration
func (v *Validator) RequireDuration(value, name string) *Validator {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		v.addFieldError(name, "%s must be a valid positive duration (e.g., '60s', '5m')", name)
	}
	return v
}

// Reject records an error against a field
func (v *Validator) Reject(field, message string) *Validator {
	v.addFieldError(field, "%s", message)
	return v
}

// Validate runs a custom validation function
func (v *Validator) Validate(fn func() error) *Validator {
	if err := fn(); err != nil {
		v.errors = append(v.errors, err)
	}
	return v
}

func (v *Validator) addFieldError(field, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if v.prefix != "" {
		msg = fmt.Sprintf("%s: %s", v.prefix, msg)
	}
	v.errors = append(v.errors, &FieldError{Field: field, Message: msg})
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return v != nil && len(v.errors) > 0
}

// Errors returns all validation errors
func (v *Validator) Errors() []error {
	if v == nil {
		return nil
	}
	return v.errors
}

// FieldErrors returns the errors recorded against the given field
func (v *Validator) FieldErrors(field string) []*FieldError {
	var out []*FieldError
	for _, err := range v.Errors() {
		if fe, ok := err.(*FieldError); ok && fe.Field == field {
			out = append(out, fe)
		}
	}
	return out
}

// Error returns the validation error or nil if there are no errors
func (v *Validator) Error() error {
	if !v.HasErrors() {
		return nil
	}

	if len(v.errors) == 1 {
		return v.errors[0]
	}

	parts := make([]string, len(v.errors))
	for i, err := range v.errors {
		parts[i] = err.Error()
	}

	return fmt.Errorf("validation failed: %s", strings.Join(parts, "; "))
}

// Clear clears all validation errors
func (v *Validator) Clear() *Validator {
	v.errors = v.errors[:0]
	return v
}

// Merge merges errors from another validator
func (v *Validator) Merge(other *Validator) *Validator {
	if other != nil && other.HasErrors() {
		v.errors = append(v.errors, other.errors...)
	}
	return v
}
