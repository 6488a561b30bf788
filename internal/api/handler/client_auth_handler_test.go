package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/brightfold/portal-api/internal/core/domain"
	"github.com/brightfold/portal-api/internal/core/ports"
)

type stubIdentityProvider struct {
	loginFn   func(ctx context.Context, creds ports.Credentials) (*domain.Identity, string, error)
	logoutFn  func(ctx context.Context, token string) error
	currentFn func(ctx context.Context, token string) (*domain.Identity, error)
}

func (s *stubIdentityProvider) Login(ctx context.Context, creds ports.Credentials) (*domain.Identity, string, error) {
	return s.loginFn(ctx, creds)
}

func (s *stubIdentityProvider) Logout(ctx context.Context, token string) error {
	if s.logoutFn == nil {
		return nil
	}
	return s.logoutFn(ctx, token)
}

func (s *stubIdentityProvider) Current(ctx context.Context, token string) (*domain.Identity, error) {
	return s.currentFn(ctx, token)
}

func newTestContext(method, path, body string) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e, e.NewContext(req, rec), rec
}

func TestClientAuthHandler_Login_Success(t *testing.T) {
	stub := &stubIdentityProvider{
		loginFn: func(ctx context.Context, creds ports.Credentials) (*domain.Identity, string, error) {
			if creds.AccessKey != "clt-7f2k" {
				t.Fatalf("unexpected access key: %q", creds.AccessKey)
			}
			identity := &domain.Identity{
				Kind:   domain.ActorClient,
				Client: &domain.Client{ID: "client_1", AccessKey: "CLT-7F2K", IsPro: true},
			}
			return identity, "token123", nil
		},
	}
	h := NewClientAuthHandler(stub)

	_, c, rec := newTestContext(http.MethodPost, "/client/login", `{"access_key":"clt-7f2k"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	identity, ok := resp["identity"].(map[string]any)
	if !ok || identity["kind"] != "client" {
		t.Fatalf("unexpected identity payload: %+v", resp["identity"])
	}
}

func TestClientAuthHandler_Login_Denied(t *testing.T) {
	stub := &stubIdentityProvider{
		loginFn: func(ctx context.Context, creds ports.Credentials) (*domain.Identity, string, error) {
			return nil, "", domain.ErrDeniedCredential
		},
	}
	h := NewClientAuthHandler(stub)

	_, c, rec := newTestContext(http.MethodPost, "/client/login", `{"access_key":"CLT-ZZZZ"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["error"] != "Invalid client ID" {
		t.Fatalf("unexpected denial message: %q", resp["error"])
	}
}

func TestClientAuthHandler_Login_MissingKey(t *testing.T) {
	stub := &stubIdentityProvider{
		loginFn: func(ctx context.Context, creds ports.Credentials) (*domain.Identity, string, error) {
			t.Fatalf("should not be called")
			return nil, "", nil
		},
	}
	h := NewClientAuthHandler(stub)

	e, c, rec := newTestContext(http.MethodPost, "/client/login", `{}`)
	if err := h.Login(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestClientAuthHandler_Logout(t *testing.T) {
	var gotToken string
	stub := &stubIdentityProvider{
		logoutFn: func(ctx context.Context, token string) error {
			gotToken = token
			return nil
		},
	}
	h := NewClientAuthHandler(stub)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/client/logout", nil)
	req.Header.Set("Authorization", "Bearer token123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if gotToken != "token123" {
		t.Fatalf("unexpected token: %q", gotToken)
	}
}
