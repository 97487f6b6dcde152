package service

import "github.com/yakoovad/meeting-guide/internal/validation"

type ErrorCode string

const (
	ErrorCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrorCodeInvalidBody      ErrorCode = "INVALID_BODY"
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrorCodeProtected        ErrorCode = "PROTECTED"
	ErrorCodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	ErrorCodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	ErrorCodeForbidden        ErrorCode = "FORBIDDEN"
	ErrorCodeUnspecified      ErrorCode = "UNSPECIFIED"
)

type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details []string  `json:"details,omitempty"`
}

func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// NewValidationError describes every failed field of a validator error.
func NewValidationError(err error) *Error {
	return &Error{
		Code:    ErrorCodeValidationFailed,
		Message: "validation failed",
		Details: validation.Messages(err),
	}
}

func (e *Error) Error() string {
	return e.Message
}
