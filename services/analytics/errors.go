package analytics

import (
	"errors"
	"fmt"
)

// Code classifies a service failure for the HTTP layer.
type Code string

const (
	CodeValidation      Code = "validation"
	CodeNotFound        Code = "not_found"
	CodeDataUnavailable Code = "data_unavailable"
)

// Error is the typed failure all analytics surfaces return.
type Error struct {
	Code    Code
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

// NewValidationError flags client-correctable input.
func NewValidationError(msg string) error {
	return &Error{Code: CodeValidation, Message: msg}
}

// NewNotFoundError flags a missing or foreign-owned record.
func NewNotFoundError(msg string) error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NewDataUnavailableError wraps a transient collaborator failure.
func NewDataUnavailableError(msg string, err error) error {
	return &Error{Code: CodeDataUnavailable, Message: msg, Err: err}
}

func codeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func IsValidation(err error) bool      { return codeOf(err) == CodeValidation }
func IsNotFound(err error) bool        { return codeOf(err) == CodeNotFound }
func IsDataUnavailable(err error) bool { return codeOf(err) == CodeDataUnavailable }
