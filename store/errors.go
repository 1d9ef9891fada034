package store

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("store: document not found")

// FieldError is one rejected field of a document.
type FieldError struct {
	Path    string
	Message string
}

// ValidationError is returned when a write breaks a length, presence or
// uniqueness rule. Nothing is written when it is returned.
type ValidationError struct {
	Model  string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Path+": "+f.Message)
	}
	return fmt.Sprintf("%s validation failed: %s", e.Model, strings.Join(parts, ", "))
}

// IsValidation reports whether err, or anything it wraps, is a
// *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func uniqueViolation(model, path, value string) error {
	return &ValidationError{
		Model: model,
		Fields: []FieldError{{
			Path:    path,
			Message: fmt.Sprintf("Error, expected `%s` to be unique. Value: `%s`", path, value),
		}},
	}
}
