package posts

import (
	"errors"
	"fmt"
)

const (
	ErrCodeInvalidURL      = "INVALID_URL"
	ErrCodeContentTooShort = "CONTENT_TOO_SHORT"
	ErrCodeExtraction      = "EXTRACTION_FAILED"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeStorage         = "STORAGE_ERROR"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeInvalidInput    = "INVALID_INPUT"
)

// Error carries a stable code and a message safe to show to the caller.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Code returns the code of the first *Error in err's chain, or "" when there is none.
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
