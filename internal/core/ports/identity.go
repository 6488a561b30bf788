package ports

import (
	"context"

	"github.com/brightfold/portal-api/internal/core/domain"
)

// Credentials is the tagged input to an IdentityProvider. Only the
// fields relevant to the provider's scheme are consulted.
type Credentials struct {
	Passphrase string
	AccessKey  string
	Email      string
	Password   string
}

// IdentityProvider is the single contract behind the portal's four
// authentication schemes. Login resolves credentials into an identity
// and a bearer token; Current re-resolves a token on every guarded
// request, so server-side changes (a pro-tier flip, a deleted profile)
// take effect on the next navigation; Logout invalidates the token and
// is idempotent.
type IdentityProvider interface {
	Login(ctx context.Context, creds Credentials) (*domain.Identity, string, error)
	Logout(ctx context.Context, token string) error
	Current(ctx context.Context, token string) (*domain.Identity, error)
}

// SignUpInput carries everything needed to create a developer identity:
// the credentialed account, its profile, and its role grant.
type SignUpInput struct {
	Email    string
	Password string
	Name     string
	Skills   []string
}

// DeveloperRegistrar extends the developer IdentityProvider with
// account creation.
type DeveloperRegistrar interface {
	IdentityProvider
	SignUp(ctx context.Context, input SignUpInput) (*domain.Identity, string, error)
}
