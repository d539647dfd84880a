package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{NotFound("missing"), http.StatusNotFound},
		{Storage("db down", errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := tc.err.HTTPStatus(); got != tc.status {
			t.Errorf("%s: expected status %d, got %d", tc.err.Type, tc.status, got)
		}
	}
}

func TestPredicates(t *testing.T) {
	if !IsValidation(Validation("x")) {
		t.Error("IsValidation should match validation errors")
	}
	if IsValidation(NotFound("x")) {
		t.Error("IsValidation should not match not-found errors")
	}
	if !IsNotFound(NotFound("x")) {
		t.Error("IsNotFound should match not-found errors")
	}
}

func TestPredicates_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("while handling request: %w", NotFound("post %s not found", "abc"))

	if !IsNotFound(wrapped) {
		t.Error("predicates should see through wrapping")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Storage("failed to query", cause)

	if !errors.Is(err, cause) {
		t.Error("storage error should unwrap to its cause")
	}
}
