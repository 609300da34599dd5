package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorString(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"formatted", New(ErrCodeInvalidFile, "invalid file name: %s", "../x.py"), "INVALID_FILE: invalid file name: ../x.py"},
		{"with cause", Wrap(ErrCodeNetwork, cause, "fetching %s", "zoo.py"), "NETWORK_ERROR: fetching zoo.py: connection refused"},
		{"no args", New(ErrCodeSessionClosed, "session closed"), "SESSION_CLOSED: session closed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "fetching zoo.py")

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(fmt.Errorf("load: %w", err), cause) {
		t.Error("cause lost through an outer %w")
	}
}

func TestClassification(t *testing.T) {
	nodeMissing := New(ErrCodeNodeNotFound, "no node %q", "Ghost")

	tests := []struct {
		name    string
		err     error
		code    Code
		message string
	}{
		{"coded", nodeMissing, ErrCodeNodeNotFound, `no node "Ghost"`},
		{"wrapped by fmt", fmt.Errorf("pointer: %w", nodeMissing), ErrCodeNodeNotFound, `no node "Ghost"`},
		{"outer code wins", Wrap(ErrCodeDataUnavailable, nodeMissing, "reload failed"), ErrCodeDataUnavailable, "reload failed"},
		{"plain", errors.New("boom"), "", "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if Is(tt.err, ErrCodeTimeout) {
				t.Error("Is(TIMEOUT) = true")
			}
			if got := UserMessage(tt.err); got != tt.message {
				t.Errorf("UserMessage() = %q, want %q", got, tt.message)
			}
		})
	}

	if Is(nil, ErrCodeInternal) || GetCode(nil) != "" {
		t.Error("nil error should carry no code")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeInvalidFormat, http.StatusBadRequest},
		{ErrCodeInvalidEvent, http.StatusBadRequest},
		{ErrCodeSessionNotFound, http.StatusNotFound},
		{ErrCodeNodeNotFound, http.StatusNotFound},
		{ErrCodeFileNotFound, http.StatusNotFound},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNetwork, http.StatusBadGateway},
		{ErrCodeDataUnavailable, http.StatusBadGateway},
		{ErrCodeTimeout, http.StatusGatewayTimeout},
		{ErrCodeSessionClosed, http.StatusGone},
		{ErrCodeUnsupported, http.StatusNotImplemented},
		{ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := HTTPStatus(fmt.Errorf("handler: %w", New(tt.code, "x"))); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}

	if got := HTTPStatus(errors.New("plain")); got != http.StatusInternalServerError {
		t.Errorf("plain error status = %d", got)
	}
}
