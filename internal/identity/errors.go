package identity

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes identity errors.
type ErrorCode string

const (
	// ErrCodeInvalidIdentifier indicates a malformed or unrecognized entity id.
	ErrCodeInvalidIdentifier ErrorCode = "INVALID_IDENTIFIER"

	// ErrCodeDegenerateDyad indicates a dyad was requested for two identifiers
	// that normalize to the same value.
	ErrCodeDegenerateDyad ErrorCode = "DEGENERATE_DYAD"
)

// Error represents an identity validation failure.
//
// All identity errors are local, synchronous failures raised at the point of
// detection; they are never retried internally.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// ID is the offending identifier, when one is known.
	ID string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s: %s (id=%s)", e.Code, e.Message, e.ID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidIdentifier returns true if the error is an invalid-identifier error.
// Uses errors.As to handle wrapped errors.
func IsInvalidIdentifier(err error) bool {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Code == ErrCodeInvalidIdentifier
	}
	return false
}

// IsDegenerateDyad returns true if the error is a degenerate-dyad error.
// Uses errors.As to handle wrapped errors.
func IsDegenerateDyad(err error) bool {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Code == ErrCodeDegenerateDyad
	}
	return false
}

func newInvalidIdentifier(id, message string) *Error {
	return &Error{Code: ErrCodeInvalidIdentifier, Message: message, ID: id}
}
