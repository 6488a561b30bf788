package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/brightfold/portal-api/internal/core/domain"
	"github.com/brightfold/portal-api/internal/core/ports"
)

// ClientAuth authenticates clients by access key. The submitted key is
// normalized before lookup, so "clt-7f2k" and "CLT-7F2K" resolve to the
// same row; a key with no matching row is a denial, not an error.
type ClientAuth struct {
	clients  ports.ClientRepository
	sessions ports.SessionStore
	ttl      time.Duration
	log      zerolog.Logger
}

func NewClientAuth(clients ports.ClientRepository, sessions ports.SessionStore, ttl time.Duration, log zerolog.Logger) *ClientAuth {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ClientAuth{clients: clients, sessions: sessions, ttl: ttl, log: log}
}

func (a *ClientAuth) Login(ctx context.Context, creds ports.Credentials) (*domain.Identity, string, error) {
	key := domain.NormalizeAccessKey(creds.AccessKey)
	if !domain.ValidAccessKey(key) {
		return nil, "", domain.ErrDeniedCredential
	}

	client, err := a.clients.FindByAccessKey(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			a.log.Warn().Str("access_key", key).Msg("unknown access key")
			return nil, "", domain.ErrDeniedCredential
		}
		return nil, "", fmt.Errorf("lookup access key: %w", err)
	}

	now := time.Now().UTC()
	session := domain.Session{
		Token:     uuid.NewString(),
		Kind:      domain.ActorClient,
		ClientID:  client.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(a.ttl),
	}
	if err := a.sessions.Put(ctx, session); err != nil {
		return nil, "", fmt.Errorf("persist client session: %w", err)
	}

	a.log.Info().Str("client_id", client.ID).Bool("is_pro", client.IsPro).Msg("client session opened")
	return &domain.Identity{Kind: domain.ActorClient, Client: client}, session.Token, nil
}

func (a *ClientAuth) Logout(ctx context.Context, token string) error {
	return a.sessions.Delete(ctx, token)
}

// Current re-fetches the client row on every call rather than trusting
// the session snapshot, so a server-side is_pro change is observed the
// next time a guard runs. A session whose client no longer exists is
// torn down on the spot.
func (a *ClientAuth) Current(ctx context.Context, token string) (*domain.Identity, error) {
	session, err := a.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.Kind != domain.ActorClient || session.Expired(time.Now().UTC()) {
		return nil, domain.ErrSessionNotFound
	}

	client, err := a.clients.FindByID(ctx, session.ClientID)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			_ = a.sessions.Delete(ctx, token)
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("resolve client session: %w", err)
	}
	return &domain.Identity{Kind: domain.ActorClient, Client: client}, nil
}
