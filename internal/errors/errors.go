// Package errors provides custom error types for the smart-city client.
//
// This package defines domain-specific errors that help with error handling
// and recovery throughout the application. Each error type provides context
// about what went wrong and can be used for specific recovery strategies.
package errors

import (
	"errors"
	"fmt"
)

// NotAuthenticatedError indicates that no auth token is present when an
// authenticated call is attempted.
//
// Recovery strategy: redirect to login.
type NotAuthenticatedError struct{}

func (e *NotAuthenticatedError) Error() string {
	return "not authenticated"
}

// NewNotAuthenticatedError creates a new not-authenticated error.
func NewNotAuthenticatedError() *NotAuthenticatedError {
	return &NotAuthenticatedError{}
}

// SessionExpiredError indicates that the bearer token was rejected by a
// service (HTTP 401/403) and the session has been cleared.
//
// Callers must distinguish this from a generic API error so it is not
// double-reported: the store already logs out when it is raised.
//
// Recovery strategy: re-login with credentials.
type SessionExpiredError struct {
	Message string
}

func (e *SessionExpiredError) Error() string {
	return fmt.Sprintf("session expired: %s", e.Message)
}

// NewSessionExpiredError creates a new session expired error with context.
func NewSessionExpiredError(msg string) *SessionExpiredError {
	return &SessionExpiredError{Message: msg}
}

// APIError indicates a non-2xx response from a service, other than an
// authentication rejection. Message carries the server-provided message
// when present, else the HTTP status text.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %s", e.Message)
}

// NewAPIError creates a new API error for a failed response.
func NewAPIError(statusCode int, msg string) *APIError {
	return &APIError{StatusCode: statusCode, Message: msg}
}

// NetworkError wraps a transport-level failure (connection refused, timeout,
// DNS). The request never produced an HTTP response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the wrapped error for error chain inspection.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new network error wrapping a transport failure.
func NewNetworkError(err error) *NetworkError {
	return &NetworkError{Err: err}
}

// ValidationError indicates a client-side form check failed before any
// network call was made. It never reaches the store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NewValidationError creates a new validation error for a form field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// IsNotAuthenticated checks if the error is a not-authenticated error.
func IsNotAuthenticated(err error) bool {
	var e *NotAuthenticatedError
	return errors.As(err, &e)
}

// IsSessionExpired checks if the error is a session expired error.
func IsSessionExpired(err error) bool {
	var e *SessionExpiredError
	return errors.As(err, &e)
}

// IsAPIError checks if the error is an API error.
func IsAPIError(err error) bool {
	var e *APIError
	return errors.As(err, &e)
}

// IsNetworkError checks if the error is a network error.
func IsNetworkError(err error) bool {
	var e *NetworkError
	return errors.As(err, &e)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}
