package ports

import (
	"context"

	"github.com/brightfold/portal-api/internal/core/domain"
)

// SessionStore persists admin and client sessions keyed by bearer
// token, so a page reload does not force re-login. Get returns
// domain.ErrSessionNotFound for unknown or expired tokens; Delete of a
// missing token is a no-op.
type SessionStore interface {
	Put(ctx context.Context, session domain.Session) error
	Get(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, token string) error
}
