package doc

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes document format errors.
type ErrorCode string

const (
	// ErrCodeMalformedFrontmatter indicates a missing or duplicate delimiter
	// or an unparseable required frontmatter field.
	ErrCodeMalformedFrontmatter ErrorCode = "MALFORMED_FRONTMATTER"
)

// Error represents a structural failure while parsing or building a document.
// Vocabulary problems (unknown metadata keys, unknown tags) are never errors;
// only structural shape is enforced.
type Error struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsMalformedFrontmatter returns true if the error is a malformed-frontmatter
// error. Uses errors.As to handle wrapped errors.
func IsMalformedFrontmatter(err error) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == ErrCodeMalformedFrontmatter
	}
	return false
}

func malformed(format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeMalformedFrontmatter,
		Message: fmt.Sprintf(format, args...),
	}
}
