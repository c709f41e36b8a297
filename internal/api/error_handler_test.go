package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/edusphere/elearning-api/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error body %q: %v", rec.Body.String(), err)
	}
	return rec.Code, resp
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"missing fields", domain.ErrMissingFields, http.StatusBadRequest},
		{"password mismatch", domain.ErrPasswordMismatch, http.StatusBadRequest},
		{"password too short", domain.ErrPasswordTooShort, http.StatusBadRequest},
		{"invalid signature", domain.ErrInvalidSignature, http.StatusBadRequest},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"no password set", domain.ErrNoPasswordSet, http.StatusUnauthorized},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound},
		{"course not found", domain.ErrCourseNotFound, http.StatusNotFound},
		{"user exists", domain.ErrUserExists, http.StatusConflict},
		{"password already set", domain.ErrPasswordAlreadySet, http.StatusConflict},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"gateway", domain.ErrGateway, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, resp := renderError(t, tc.err)
			if code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, code)
			}
			if resp.Error == "" {
				t.Fatalf("expected an error message")
			}
		})
	}
}

func TestHTTPErrorHandler_WrappedErrors(t *testing.T) {
	code, _ := renderError(t, errors.Join(errors.New("context"), domain.ErrCourseNotFound))
	if code != http.StatusNotFound {
		t.Fatalf("wrapped domain errors must still map, got %d", code)
	}
}

func TestHTTPErrorHandler_PaymentDecline(t *testing.T) {
	code, resp := renderError(t, &domain.PaymentError{Code: "card_declined"})
	if code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d", code)
	}
	if resp.Error != domain.DeclineMessage("card_declined") {
		t.Fatalf("expected the decline guidance, got %q", resp.Error)
	}
}

func TestHTTPErrorHandler_EchoError(t *testing.T) {
	code, resp := renderError(t, echo.NewHTTPError(http.StatusTeapot, "short and stout"))
	if code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", code)
	}
	if resp.Error != "short and stout" {
		t.Fatalf("unexpected message: %q", resp.Error)
	}
}

func TestHTTPErrorHandler_UnknownErrorHidden(t *testing.T) {
	code, resp := renderError(t, errors.New("pq: connection reset at 10.0.0.5"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if strings.Contains(resp.Error, "10.0.0.5") {
		t.Fatalf("internal details must not leak: %q", resp.Error)
	}
	if resp.Error != "internal server error" {
		t.Fatalf("unexpected message: %q", resp.Error)
	}
}

func TestHTTPErrorHandler_CommittedResponseUntouched(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := c.JSON(http.StatusOK, map[string]bool{"ok": true}); err != nil {
		t.Fatalf("prime response: %v", err)
	}
	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrUserNotFound, c)

	if rec.Code != http.StatusOK {
		t.Fatalf("a committed response must not be overwritten, got %d", rec.Code)
	}
}
