package domain

import (
	"errors"
	"strings"
)

// ErrValidation matches every ValidationErrors value via errors.Is.
var ErrValidation = errors.New("validation error")

// FieldError is one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects field errors for a single request. A request carrying any
// of them must not be applied.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

// Add appends a field error.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

// OrNil returns nil when nothing was collected so callers can `return errs.OrNil()`.
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// Invalid builds a single-field validation error.
func Invalid(field, message string) error {
	return ValidationErrors{{Field: field, Message: message}}
}
