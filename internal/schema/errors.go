package schema

import (
	"errors"
	"fmt"
)

// Validation failure classes, in the order the gateway checks them.
//
// Use errors.Is to classify a *ValidationError:
//
//	if errors.Is(err, schema.ErrUnexpectedField) {
//	    // reject with 400
//	}
var (
	// ErrMalformedInput is returned when the payload is not parseable JSON.
	ErrMalformedInput = errors.New("schema: malformed input")

	// ErrNotAnObject is returned when the payload is valid JSON but not an object.
	ErrNotAnObject = errors.New("schema: not an object")

	// ErrUnexpectedField is returned when the payload names a field outside the allowed set.
	ErrUnexpectedField = errors.New("schema: unexpected field")

	// ErrSchemaViolation is returned when a value has the wrong type, shape or enum member.
	ErrSchemaViolation = errors.New("schema: schema violation")
)

// ValidationError describes why a payload was rejected for a record kind.
type ValidationError struct {
	// Kind is the record kind the payload was validated against.
	Kind string

	// Reason is one of the Err* sentinels above.
	Reason error

	// Field is the offending top-level field for ErrUnexpectedField.
	Field string

	// Detail is a human-readable explanation from the parser or validator.
	Detail string
}

// Error returns a stable message per failure class.
func (e *ValidationError) Error() string {
	switch {
	case errors.Is(e.Reason, ErrMalformedInput):
		return fmt.Sprintf("invalid JSON format: %s", e.Detail)
	case errors.Is(e.Reason, ErrNotAnObject):
		return "JSON input must be an object"
	case errors.Is(e.Reason, ErrUnexpectedField):
		return fmt.Sprintf("unexpected field: %s", e.Field)
	default:
		return fmt.Sprintf("schema validation failed: %s", e.Detail)
	}
}

// Unwrap exposes the failure class to errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.Reason
}
