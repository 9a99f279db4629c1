package client

import (
	"errors"
	"fmt"

	"github.com/harpproto/harp/internal/doc"
	"github.com/harpproto/harp/internal/identity"
)

// ErrorCode classifies client failures.
type ErrorCode string

const (
	// ErrCodeDyadNotFound means no epoch pointer exists for the dyad and layer.
	ErrCodeDyadNotFound ErrorCode = "DYAD_NOT_FOUND"

	// ErrCodeEpochConflict means a concurrent writer advanced the pointer
	// between read and swap. The operation did not take effect.
	ErrCodeEpochConflict ErrorCode = "EPOCH_CONFLICT"
)

// Error is a typed client failure identifying the dyad and layer involved.
type Error struct {
	Code  ErrorCode
	Dyad  identity.DyadID
	Layer doc.Layer
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeDyadNotFound:
		return fmt.Sprintf("%s: dyad not found: %s (layer: %s)", e.Code, e.Dyad, e.Layer)
	case ErrCodeEpochConflict:
		return fmt.Sprintf("%s: concurrent epoch advance on %s (layer: %s)", e.Code, e.Dyad, e.Layer)
	}
	return fmt.Sprintf("%s: %s (layer: %s)", e.Code, e.Dyad, e.Layer)
}

// IsDyadNotFound reports whether err is a DYAD_NOT_FOUND error.
func IsDyadNotFound(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Code == ErrCodeDyadNotFound
}

// IsEpochConflict reports whether err is an EPOCH_CONFLICT error.
func IsEpochConflict(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Code == ErrCodeEpochConflict
}
