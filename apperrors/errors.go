// apperrors/errors.go
package apperrors

import (
	"fmt"

	"github.com/pkg/errors"
)

type Code string

const (
	CodeValidation   Code = "VALIDATION"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeInvalidState Code = "INVALID_STATE"
	CodeInternal     Code = "INTERNAL"
)

// AppError is the typed failure returned by every engine operation.
type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

func New(code Code, message string) error {
	return &AppError{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) error {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func Validation(msg string) error   { return New(CodeValidation, msg) }
func NotFound(msg string) error     { return New(CodeNotFound, msg) }
func Conflict(msg string) error     { return New(CodeConflict, msg) }
func InvalidState(msg string) error { return New(CodeInvalidState, msg) }

// Internal wraps a storage or transport failure. The caller decides on retry.
func Internal(op string, cause error) error {
	return Wrap(CodeInternal, op, cause)
}

// CodeOf returns the code carried by err, or CodeInternal for foreign errors.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// MessageOf returns the client-facing message of err without its cause.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// HTTPStatus maps a code onto the status the HTTP layer answers with.
// Conflict and InvalidState are both plain 400s for link-driven clients.
func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeConflict, CodeInvalidState:
		return 400
	case CodeNotFound:
		return 404
	default:
		return 500
	}
}
