package ports

import (
	"context"

	"github.com/brightfold/portal-api/internal/core/domain"
)

// ClientPatch carries the mutable client fields; nil means "leave as is".
type ClientPatch struct {
	Name    *string
	Email   *string
	Company *string
	IsPro   *bool
}

// ClientRepository defines persistence for portal clients.
// FindByAccessKey expects a normalized key and returns
// domain.ErrClientNotFound when no row matches.
type ClientRepository interface {
	FindByAccessKey(ctx context.Context, key string) (*domain.Client, error)
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context) ([]domain.Client, error)
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, id string, patch ClientPatch) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
}
