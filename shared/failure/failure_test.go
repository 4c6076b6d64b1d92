package failure_test

import (
	"concierge/shared/failure"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	if f.Error() != "test error message" {
		t.Errorf("expected error message to be 'test error message', got %s", f.Error())
	}
}

func TestPredefinedFailures(t *testing.T) {
	tests := []struct {
		name    string
		failure *failure.Failure
		code    int
		message string
	}{
		{
			name:    "ForbiddenError",
			failure: failure.ForbiddenError,
			code:    http.StatusForbidden,
			message: "You don't have the required permissions",
		},
		{
			name:    "ResourceRestrictedError",
			failure: failure.ResourceRestrictedError,
			code:    http.StatusForbidden,
			message: "You don't have permission to access this resource",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.failure.Code != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, tt.failure.Code)
			}

			if tt.failure.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, tt.failure.Message)
			}
		})
	}
}

func TestBadRequest(t *testing.T) {
	if failure.BadRequest(nil) != nil {
		t.Error("expected nil for nil input")
	}

	result := failure.BadRequest(errors.New("bad input"))
	if failure.GetCode(result) != http.StatusBadRequest {
		t.Errorf("expected code %d, got %d", http.StatusBadRequest, failure.GetCode(result))
	}

	if result.Error() != "bad input" {
		t.Errorf("expected message 'bad input', got %s", result.Error())
	}
}

func TestConstructorsCarryCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "bad request from string", err: failure.BadRequestFromString("x"), code: http.StatusBadRequest},
		{name: "unauthorized", err: failure.Unauthorized("x"), code: http.StatusUnauthorized},
		{name: "internal", err: failure.InternalError(errors.New("x")), code: http.StatusInternalServerError},
		{name: "not found", err: failure.NotFound("x"), code: http.StatusNotFound},
		{name: "conflict", err: failure.Conflict("x"), code: http.StatusConflict},
		{name: "forbidden", err: failure.Forbidden("x"), code: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.GetCode(tt.err); got != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, got)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("account inactive")
	err := failure.Wrap(http.StatusUnauthorized, "invalid credentials", cause)

	if err.Error() != "invalid credentials" {
		t.Errorf("expected public message, got %s", err.Error())
	}

	if !errors.Is(err, cause) {
		t.Error("expected wrapped failure to match its cause")
	}

	if failure.GetCode(fmt.Errorf("outer: %w", err)) != http.StatusUnauthorized {
		t.Error("expected code to survive further wrapping")
	}
}

func TestGetCode(t *testing.T) {
	if failure.GetCode(errors.New("plain")) != http.StatusInternalServerError {
		t.Error("expected plain errors to map to 500")
	}
}
