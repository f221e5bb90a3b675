package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeConflict     Code = "CONFLICT"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidToken Code = "INVALID_OR_EXPIRED_TOKEN"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// AppError carries the HTTP status a failure maps to. Message is safe for
// clients; Err holds the underlying cause for server-side logs only.
type AppError struct {
	Code    Code
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func InvalidInput(message string) *AppError {
	return &AppError{Code: CodeInvalidInput, Status: http.StatusBadRequest, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Code: CodeConflict, Status: http.StatusConflict, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Status: http.StatusUnauthorized, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Code: CodeNotFound, Status: http.StatusNotFound, Message: message}
}

func InvalidToken(message string) *AppError {
	return &AppError{Code: CodeInvalidToken, Status: http.StatusBadRequest, Message: message}
}

func Internal(err error) *AppError {
	return &AppError{Code: CodeInternal, Status: http.StatusInternalServerError, Message: "internal server error", Err: err}
}

// From returns err's *AppError if it has one, otherwise wraps it as Internal.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
