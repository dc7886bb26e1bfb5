package errors

import (
	"fmt"
	"testing"
)

func TestSessionExpiredError(t *testing.T) {
	err := NewSessionExpiredError("token rejected")
	expected := "session expired: token rejected"

	if err.Error() != expected {
		t.Errorf("expected %q but got %q", expected, err.Error())
	}
}

func TestAPIError(t *testing.T) {
	err := NewAPIError(500, "Internal Server Error")

	if err.StatusCode != 500 {
		t.Errorf("expected status code 500 but got %d", err.StatusCode)
	}
	if err.Error() != "API error: Internal Server Error" {
		t.Errorf("unexpected error string: %q", err.Error())
	}
}

func TestNetworkError(t *testing.T) {
	base := fmt.Errorf("connection refused")
	err := NewNetworkError(base)

	if err.Err == nil {
		t.Error("expected wrapped error but got nil")
	}
	if err.Unwrap() != base {
		t.Error("expected Unwrap to return the wrapped error")
	}
	if err.Error() == "" {
		t.Error("expected non-empty error string")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("phoneNumber", "must be exactly 10 digits")

	if err.Error() != "validation failed: phoneNumber: must be exactly 10 digits" {
		t.Errorf("unexpected error string: %q", err.Error())
	}

	bare := NewValidationError("", "form incomplete")
	if bare.Error() != "validation failed: form incomplete" {
		t.Errorf("unexpected error string: %q", bare.Error())
	}
}

func TestIsSessionExpired(t *testing.T) {
	sessionErr := NewSessionExpiredError("test")
	if !IsSessionExpired(sessionErr) {
		t.Error("expected IsSessionExpired to return true for SessionExpiredError")
	}

	otherErr := NewAPIError(404, "not found")
	if IsSessionExpired(otherErr) {
		t.Error("expected IsSessionExpired to return false for APIError")
	}
}

func TestIsSessionExpiredWrapped(t *testing.T) {
	wrapped := fmt.Errorf("aggregate fetch: %w", NewSessionExpiredError("token rejected"))
	if !IsSessionExpired(wrapped) {
		t.Error("expected IsSessionExpired to see through wrapped errors")
	}
}

func TestIsNotAuthenticated(t *testing.T) {
	if !IsNotAuthenticated(NewNotAuthenticatedError()) {
		t.Error("expected IsNotAuthenticated to return true for NotAuthenticatedError")
	}
	if IsNotAuthenticated(NewSessionExpiredError("x")) {
		t.Error("expected IsNotAuthenticated to return false for SessionExpiredError")
	}
}

func TestIsAPIError(t *testing.T) {
	if !IsAPIError(NewAPIError(400, "bad request")) {
		t.Error("expected IsAPIError to return true for APIError")
	}
	if IsAPIError(NewNetworkError(fmt.Errorf("timeout"))) {
		t.Error("expected IsAPIError to return false for NetworkError")
	}
}
