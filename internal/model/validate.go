package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateInput checks an EntityInput for constraint violations.
// It returns a *ValidationError if any rules fail, or nil if the input is valid.
func ValidateInput(in *EntityInput) error {
	var ve ValidationError

	if strings.TrimSpace(in.CreatedBy) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "created_by", Message: "is required"})
	}

	// Data must be a JSON object, not an array or scalar.
	trimmed := bytes.TrimSpace(in.Data)
	switch {
	case len(trimmed) == 0:
		ve.Errors = append(ve.Errors, FieldError{Field: "data", Message: "is required"})
	case trimmed[0] != '{' || !json.Valid(trimmed):
		ve.Errors = append(ve.Errors, FieldError{Field: "data", Message: "must be a JSON object"})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
