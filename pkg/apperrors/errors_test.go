package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestError_WrapAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("failed to load asset", cause)

	if err.Error() != "failed to load asset: connection refused" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("Expected error to unwrap to its cause")
	}
}

func TestCodeOf_ThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("handler: %w", NotFound("Rack", 7))
	if !IsNotFound(err) {
		t.Errorf("Expected not-found code through wrapping, got %v", CodeOf(err))
	}
	if err.Error() != "handler: Rack with id `7` does not exist" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestHTTPStatusAndExitCode(t *testing.T) {
	testCases := []struct {
		err    error
		status int
		exit   int
	}{
		{NotFound("Asset", 1), http.StatusNotFound, ExitNotFound},
		{Validation("bad", nil), http.StatusBadRequest, ExitValidation},
		{Forbidden("no"), http.StatusForbidden, ExitGeneral},
		{Conflict("dup"), http.StatusConflict, ExitGeneral},
		{ConfigError("cfg", nil), http.StatusInternalServerError, ExitConfig},
		{errors.New("plain"), http.StatusInternalServerError, ExitGeneral},
	}
	for _, tc := range testCases {
		if got := HTTPStatus(tc.err); got != tc.status {
			t.Errorf("HTTPStatus(%v) = %d, expected %d", tc.err, got, tc.status)
		}
		if got := ExitCode(tc.err); got != tc.exit {
			t.Errorf("ExitCode(%v) = %d, expected %d", tc.err, got, tc.exit)
		}
	}
	if ExitCode(nil) != ExitSuccess {
		t.Error("Expected success exit code for nil error")
	}
}
