package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/brightfold/portal-api/internal/core/domain"
	"github.com/brightfold/portal-api/internal/core/ports"
)

type stubSessionStore struct {
	sessions map[string]domain.Session
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]domain.Session)}
}

func (s *stubSessionStore) Put(_ context.Context, session domain.Session) error {
	s.sessions[session.Token] = session
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, token string) (*domain.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (s *stubSessionStore) Delete(_ context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

func TestAdminAuth_Login_Success(t *testing.T) {
	sessions := newStubSessionStore()
	auth := NewAdminAuth("letmein", sessions, time.Hour, zerolog.Nop())

	identity, token, err := auth.Login(context.Background(), ports.Credentials{Passphrase: "letmein"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if identity == nil || identity.Kind != domain.ActorAdmin {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if _, ok := sessions.sessions[token]; !ok {
		t.Fatalf("session not persisted")
	}
}

func TestAdminAuth_Login_WrongPassphrase(t *testing.T) {
	sessions := newStubSessionStore()
	auth := NewAdminAuth("letmein", sessions, time.Hour, zerolog.Nop())

	if _, _, err := auth.Login(context.Background(), ports.Credentials{Passphrase: "nope"}); err != domain.ErrDeniedCredential {
		t.Fatalf("expected ErrDeniedCredential, got %v", err)
	}
	if len(sessions.sessions) != 0 {
		t.Fatalf("no session should be created on denial")
	}
}

func TestAdminAuth_Login_NoLockout(t *testing.T) {
	sessions := newStubSessionStore()
	auth := NewAdminAuth("letmein", sessions, time.Hour, zerolog.Nop())

	for i := 0; i < 3; i++ {
		if _, _, err := auth.Login(context.Background(), ports.Credentials{Passphrase: "wrong"}); err != domain.ErrDeniedCredential {
			t.Fatalf("attempt %d: expected ErrDeniedCredential, got %v", i, err)
		}
	}

	if _, _, err := auth.Login(context.Background(), ports.Credentials{Passphrase: "letmein"}); err != nil {
		t.Fatalf("correct passphrase after failures should succeed, got %v", err)
	}
}

func TestAdminAuth_Login_EmptyConfiguredPassphrase(t *testing.T) {
	auth := NewAdminAuth("", newStubSessionStore(), time.Hour, zerolog.Nop())

	if _, _, err := auth.Login(context.Background(), ports.Credentials{Passphrase: ""}); err != domain.ErrDeniedCredential {
		t.Fatalf("expected ErrDeniedCredential with login disabled, got %v", err)
	}
}

func TestAdminAuth_Current_ExpiredSession(t *testing.T) {
	sessions := newStubSessionStore()
	auth := NewAdminAuth("letmein", sessions, time.Hour, zerolog.Nop())

	now := time.Now().UTC()
	sessions.sessions["stale"] = domain.Session{
		Token:     "stale",
		Kind:      domain.ActorAdmin,
		IssuedAt:  now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}

	if _, err := auth.Current(context.Background(), "stale"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound for expired session, got %v", err)
	}
}

func TestAdminAuth_Logout_Idempotent(t *testing.T) {
	sessions := newStubSessionStore()
	auth := NewAdminAuth("letmein", sessions, time.Hour, zerolog.Nop())

	_, token, err := auth.Login(context.Background(), ports.Credentials{Passphrase: "letmein"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := auth.Logout(context.Background(), token); err != nil {
		t.Fatalf("first logout failed: %v", err)
	}
	if err := auth.Logout(context.Background(), token); err != nil {
		t.Fatalf("second logout failed: %v", err)
	}
	if _, err := auth.Current(context.Background(), token); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound after logout, got %v", err)
	}
}
