package errors

import (
	"fmt"
	"net/http"
)

// Error codes for the chat turn pipeline. InvalidRequest is terminal and
// not retryable; UpstreamError may be retried manually by resending.
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeConfigurationError = "CONFIGURATION_ERROR"
	CodeUpstreamError      = "UPSTREAM_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeConflict           = "CONFLICT"
	CodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	CodeInternalError      = "INTERNAL_ERROR"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// NewError creates a new application error
func NewError(statusCode int, code string, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

// NewInvalidRequest creates a 400 error for malformed or missing input.
func NewInvalidRequest(message string) *AppError {
	return NewError(http.StatusBadRequest, CodeInvalidRequest, message)
}

// NewConfigurationError creates a 500 error for deployment or credential
// problems that an operator has to fix.
func NewConfigurationError(message string) *AppError {
	return NewError(http.StatusInternalServerError, CodeConfigurationError, message)
}

// NewUpstreamError creates a 500 error carrying the provider's failure text.
func NewUpstreamError(message string) *AppError {
	return NewError(http.StatusInternalServerError, CodeUpstreamError, message)
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(message string) *AppError {
	return NewError(http.StatusNotFound, CodeNotFound, message)
}

// NewUnauthorizedError creates a 401 Unauthorized error
func NewUnauthorizedError(message string) *AppError {
	return NewError(http.StatusUnauthorized, CodeUnauthorized, message)
}

// NewForbiddenError creates a 403 Forbidden error
func NewForbiddenError(message string) *AppError {
	return NewError(http.StatusForbidden, CodeForbidden, message)
}

// NewConflictError creates a 409 Conflict error
func NewConflictError(message string) *AppError {
	return NewError(http.StatusConflict, CodeConflict, message)
}

// NewInternalServerError creates a 500 Internal Server Error
func NewInternalServerError(message string) *AppError {
	return NewError(http.StatusInternalServerError, CodeInternalError, message)
}

// FromError converts a standard error to an AppError.
// If the error is already an AppError, it is returned as-is.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternalServerError(fmt.Sprintf("An unexpected error occurred: %s", err.Error()))
}

// GetStatusCode extracts the HTTP status code, returns 500 if not an AppError
func GetStatusCode(err error) int {
	if appErr, ok := err.(*AppError); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// Is checks whether the error is an AppError with the given code.
func Is(err error, code string) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}
