// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"strings"
)

// Username constraints shared by the signup flow and the account API.
const (
	MaxUsernameLen = 100
	MaxEmailLen    = 255
	MinPasswordLen = 5
)

// UsernameCharsValid reports whether every byte of the username is an ASCII
// digit, letter, hyphen or underscore. The empty string passes vacuously;
// the length check is the authoritative guard against empty names.
func UsernameCharsValid(username string) bool {
	for i := 0; i < len(username); i++ {
		c := username[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validator accumulates validation errors across chained rules.
type Validator struct {
	errors []ValidationError
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		errors: make([]ValidationError, 0),
	}
}

// Required validates that a field is not empty
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.errors = append(v.errors, ValidationError{
			Field:   field,
			Message: "is required",
		})
	}
	return v
}

// MinLength validates minimum string length
func (v *Validator) MinLength(field, value string, min int) *Validator {
	if len(strings.TrimSpace(value)) < min {
		v.errors = append(v.errors, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at least %d characters", min),
		})
	}
	return v
}

// MaxLength validates maximum string length
func (v *Validator) MaxLength(field, value string, max int) *Validator {
	if len(value) > max {
		v.errors = append(v.errors, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be no more than %d characters", max),
		})
	}
	return v
}

// UsernameChars validates the allowed username character class.
func (v *Validator) UsernameChars(field, value string) *Validator {
	if !UsernameCharsValid(value) {
		v.errors = append(v.errors, ValidationError{
			Field:   field,
			Message: "may only contain letters, digits, hyphens and underscores",
		})
	}
	return v
}

// Email validates email format (basic validation)
func (v *Validator) Email(field, value string) *Validator {
	if value != "" && !strings.Contains(value, "@") {
		v.errors = append(v.errors, ValidationError{
			Field:   field,
			Message: "must be a valid email address",
		})
	}
	return v
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors
func (v *Validator) Errors() []ValidationError {
	return v.errors
}

// FirstError returns the first error message or empty string if no errors
func (v *Validator) FirstError() string {
	if len(v.errors) > 0 {
		return v.errors[0].Error()
	}
	return ""
}

// TodoRequest represents a to-do item for validation
type TodoRequest struct {
	Title     string `json:"title"`
	Tag       string `json:"tag"`
	Body      string `json:"body"`
	StartDate string `json:"startDate"`
	DueDate   string `json:"dueDate"`
}

// ValidateTodo validates a to-do create/update request
func ValidateTodo(todo TodoRequest) *Validator {
	v := NewValidator()

	v.Required("title", todo.Title).
		MaxLength("title", todo.Title, 255)

	v.MaxLength("tag", todo.Tag, 100)
	v.MaxLength("body", todo.Body, 5000)

	return v
}

// TagRequest represents a tag for validation
type TagRequest struct {
	Name string `json:"name"`
}

// ValidateTag validates a tag request
func ValidateTag(tag TagRequest) *Validator {
	v := NewValidator()

	v.Required("name", tag.Name).
		MaxLength("name", tag.Name, 100)

	return v
}
