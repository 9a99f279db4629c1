package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrorCode classifies storage failures.
type ErrorCode string

// ErrCodeNotFound means no content exists under the requested id.
const ErrCodeNotFound ErrorCode = "NOT_FOUND"

// Error is a typed storage failure carrying the id that triggered it.
type Error struct {
	Code    ErrorCode
	Message string
	ID      string
}

func (e *Error) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.ID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNotFound reports whether err is a NOT_FOUND storage error.
func IsNotFound(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Code == ErrCodeNotFound
}

func notFound(id string) *Error {
	return &Error{Code: ErrCodeNotFound, Message: "content not found", ID: id}
}

// Storage stores serialized documents under content-derived ids.
//
// Store is idempotent: the same content always maps to the same id and a
// repeat store is a no-op. Retrieve returns a NOT_FOUND error for unknown
// ids. Pin and Unpin manage the retention set; both are idempotent and
// Unpin of an unpinned id succeeds.
type Storage interface {
	Store(ctx context.Context, content string) (string, error)
	Retrieve(ctx context.Context, id string) (string, error)
	Exists(ctx context.Context, id string) (bool, error)
	Pin(ctx context.Context, id string) error
	Unpin(ctx context.Context, id string) error
}

// contentIDPrefix marks locally derived ids. The digest tail keeps ids
// short while remaining collision-resistant for document-scale content.
const contentIDPrefix = "bafymem"

// ContentID derives the storage id for a blob: a fixed prefix plus the
// first 40 hex characters of the content's SHA-256 digest. All backends
// share this derivation so ids stay stable across backends.
func ContentID(content string) string {
	sum := sha256.Sum256([]byte(content))
	return contentIDPrefix + hex.EncodeToString(sum[:])[:40]
}
