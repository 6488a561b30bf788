package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/brightfold/portal-api/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := NewHTTPErrorHandler(zerolog.Nop())
	handler(err, c)

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return rec.Code, body.Error
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err      error
		wantCode int
		wantMsg  string
	}{
		{domain.ErrDeniedCredential, http.StatusUnauthorized, "Invalid security credentials"},
		{domain.ErrSessionNotFound, http.StatusUnauthorized, "session expired or not found"},
		{domain.ErrOrphanedIdentity, http.StatusForbidden, "this account is not registered as a developer"},
		{domain.ErrProRequired, http.StatusForbidden, "pro tier required"},
		{domain.ErrProjectNotFound, http.StatusNotFound, "project not found"},
		{domain.ErrAccountExists, http.StatusConflict, "account already exists"},
		{domain.ErrInvalidStatus, http.StatusUnprocessableEntity, "invalid project status"},
	}
	for _, tc := range cases {
		code, msg := renderError(t, tc.err)
		if code != tc.wantCode || msg != tc.wantMsg {
			t.Fatalf("%v: got %d %q, want %d %q", tc.err, code, msg, tc.wantCode, tc.wantMsg)
		}
	}
}

func TestHTTPErrorHandler_DeniedCredentialMessageMatchesLoginSurface(t *testing.T) {
	// The admin login handler renders this exact message on denial; the
	// central mapping must agree so a denial reads the same everywhere.
	_, msg := renderError(t, domain.ErrDeniedCredential)
	if msg != "Invalid security credentials" {
		t.Fatalf("unexpected denial message: %q", msg)
	}
}

func TestHTTPErrorHandler_ScopeViolationIsOpaque(t *testing.T) {
	code, msg := renderError(t, domain.ErrScopeViolation)
	if code != http.StatusInternalServerError || msg != "internal server error" {
		t.Fatalf("got %d %q, want opaque 500", code, msg)
	}
}

func TestHTTPErrorHandler_UnknownErrorIsOpaque(t *testing.T) {
	code, msg := renderError(t, errors.New("mongo: socket closed"))
	if code != http.StatusInternalServerError || msg != "internal server error" {
		t.Fatalf("got %d %q, want opaque 500", code, msg)
	}
}

func TestHTTPErrorHandler_EchoErrorPassthrough(t *testing.T) {
	code, msg := renderError(t, echo.NewHTTPError(http.StatusBadRequest, "invalid payload"))
	if code != http.StatusBadRequest || msg != "invalid payload" {
		t.Fatalf("got %d %q, want 400 invalid payload", code, msg)
	}
}
