package preset

import (
	"errors"
	"fmt"
)

// Code categorizes table and validation errors.
type Code string

const (
	// CodeValidation indicates bad input: empty name, oversized fields.
	// Validation failures are rejected before any mutation.
	CodeValidation Code = "VALIDATION_ERROR"

	// CodeExists indicates an active preset with the same name exists.
	CodeExists Code = "EXISTS"

	// CodeNotFound indicates no active preset matches the name.
	CodeNotFound Code = "NOT_FOUND"

	// CodeCapacity indicates the table already holds MaxPresets active presets.
	CodeCapacity Code = "CAPACITY_EXCEEDED"
)

// Error is a typed table error with a machine-readable code.
type Error struct {
	// Code identifies the error category.
	Code Code

	// Message is a human-readable description.
	Message string

	// Name identifies the affected preset, when known.
	Name string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s (preset=%s)", e.Code, e.Message, e.Name)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNotFound reports whether err is a NOT_FOUND table error.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Code == CodeNotFound
}

// IsExists reports whether err is an EXISTS table error.
func IsExists(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Code == CodeExists
}

// IsValidation reports whether err is a VALIDATION_ERROR table error.
func IsValidation(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Code == CodeValidation
}

// IsCapacity reports whether err is a CAPACITY_EXCEEDED table error.
func IsCapacity(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Code == CodeCapacity
}

func newValidationError(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

func newExistsError(name string) *Error {
	return &Error{Code: CodeExists, Message: "preset already exists", Name: name}
}

func newNotFoundError(name string) *Error {
	return &Error{Code: CodeNotFound, Message: "preset not found", Name: name}
}

func newCapacityError() *Error {
	return &Error{Code: CodeCapacity, Message: fmt.Sprintf("maximum number of presets reached (%d)", MaxPresets)}
}
