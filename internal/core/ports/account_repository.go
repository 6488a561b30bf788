package ports

import (
	"context"

	"github.com/brightfold/portal-api/internal/core/domain"
)

// AccountRepository defines persistence for credentialed accounts.
// FindByEmail returns domain.ErrAccountNotFound for unknown emails;
// Create returns domain.ErrAccountExists on a duplicate email.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
}

// ProfileRepository defines persistence for developer profiles.
// FindByAccountID returns domain.ErrOrphanedIdentity when the account
// has no profile.
type ProfileRepository interface {
	FindByAccountID(ctx context.Context, accountID string) (*domain.DeveloperProfile, error)
	Create(ctx context.Context, profile *domain.DeveloperProfile) error
}

// RoleRepository records role grants held by accounts.
type RoleRepository interface {
	Grant(ctx context.Context, accountID, role string) error
}
