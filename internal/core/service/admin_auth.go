package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/brightfold/portal-api/internal/core/domain"
	"github.com/brightfold/portal-api/internal/core/ports"
)

// AdminAuth authenticates the admin actor against a single configured
// passphrase. Failure is constant-shape: every denial is
// domain.ErrDeniedCredential, with no hint as to why, and no lockout
// state accumulates between attempts.
type AdminAuth struct {
	passphrase string
	sessions   ports.SessionStore
	ttl        time.Duration
	log        zerolog.Logger
}

func NewAdminAuth(passphrase string, sessions ports.SessionStore, ttl time.Duration, log zerolog.Logger) *AdminAuth {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AdminAuth{passphrase: passphrase, sessions: sessions, ttl: ttl, log: log}
}

func (a *AdminAuth) Login(ctx context.Context, creds ports.Credentials) (*domain.Identity, string, error) {
	// An empty configured passphrase disables admin login outright.
	if a.passphrase == "" {
		return nil, "", domain.ErrDeniedCredential
	}
	if subtle.ConstantTimeCompare([]byte(creds.Passphrase), []byte(a.passphrase)) != 1 {
		a.log.Warn().Msg("admin passphrase rejected")
		return nil, "", domain.ErrDeniedCredential
	}

	now := time.Now().UTC()
	session := domain.Session{
		Token:     uuid.NewString(),
		Kind:      domain.ActorAdmin,
		IssuedAt:  now,
		ExpiresAt: now.Add(a.ttl),
	}
	if err := a.sessions.Put(ctx, session); err != nil {
		return nil, "", fmt.Errorf("persist admin session: %w", err)
	}

	a.log.Info().Msg("admin session opened")
	return &domain.Identity{Kind: domain.ActorAdmin}, session.Token, nil
}

// Logout invalidates the token. Deleting an unknown token is a no-op,
// so calling Logout twice is safe.
func (a *AdminAuth) Logout(ctx context.Context, token string) error {
	return a.sessions.Delete(ctx, token)
}

// Current resolves a bearer token back into the admin identity. It is
// called on every guarded request, never cached by callers.
func (a *AdminAuth) Current(ctx context.Context, token string) (*domain.Identity, error) {
	session, err := a.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.Kind != domain.ActorAdmin || session.Expired(time.Now().UTC()) {
		return nil, domain.ErrSessionNotFound
	}
	return &domain.Identity{Kind: domain.ActorAdmin}, nil
}
