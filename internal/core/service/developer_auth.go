package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/brightfold/portal-api/internal/core/domain"
	"github.com/brightfold/portal-api/internal/core/ports"
)

// DeveloperAuth authenticates developers through the credentialed
// account service. A developer identity is valid only when both the
// account and its profile exist; the two are re-checked together on
// every Current call so they can never diverge in held state.
//
// Sessions are stateless HS256 JWTs, so Logout has nothing to
// invalidate server-side: the caller discards the token.
type DeveloperAuth struct {
	accounts  ports.AccountRepository
	profiles  ports.ProfileRepository
	roles     ports.RoleRepository
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewDeveloperAuth(accounts ports.AccountRepository, profiles ports.ProfileRepository, roles ports.RoleRepository, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *DeveloperAuth {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &DeveloperAuth{
		accounts:  accounts,
		profiles:  profiles,
		roles:     roles,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// SignUp creates the account, then the profile, then the role grant.
// If profile creation fails after the account was created, the account
// is left in place and the failure is surfaced as ErrOrphanedIdentity
// so the caller can see the orphaned-account state instead of a
// generic error.
func (a *DeveloperAuth) SignUp(ctx context.Context, input ports.SignUpInput) (*domain.Identity, string, error) {
	if input.Email == "" || input.Password == "" || input.Name == "" {
		return nil, "", domain.ErrDeniedCredential
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	if err := a.accounts.Create(ctx, account); err != nil {
		return nil, "", err
	}

	profile := &domain.DeveloperProfile{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		Name:      input.Name,
		Skills:    input.Skills,
		CreatedAt: now,
	}
	if err := a.profiles.Create(ctx, profile); err != nil {
		a.log.Error().Err(err).Str("account_id", account.ID).Msg("profile creation failed after account creation")
		return nil, "", fmt.Errorf("%w: %s", domain.ErrOrphanedIdentity, account.Email)
	}

	if err := a.roles.Grant(ctx, account.ID, domain.RoleDeveloper); err != nil {
		// The identity is complete without the grant; record and move on.
		a.log.Error().Err(err).Str("account_id", account.ID).Msg("role grant failed")
	}

	token, err := a.mintToken(account)
	if err != nil {
		return nil, "", err
	}

	a.log.Info().Str("account_id", account.ID).Msg("developer signed up")
	return &domain.Identity{Kind: domain.ActorDeveloper, Account: account, Profile: profile}, token, nil
}

// Login validates credentials and then immediately fetches the profile.
// A credentialed sign-in with no profile is not a developer login: no
// token is issued and ErrOrphanedIdentity is returned, which signs the
// account straight back out.
func (a *DeveloperAuth) Login(ctx context.Context, creds ports.Credentials) (*domain.Identity, string, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, "", domain.ErrDeniedCredential
	}

	account, err := a.accounts.FindByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, "", domain.ErrDeniedCredential
		}
		return nil, "", fmt.Errorf("lookup account: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(creds.Password)) != nil {
		return nil, "", domain.ErrDeniedCredential
	}

	profile, err := a.profiles.FindByAccountID(ctx, account.ID)
	if err != nil {
		if errors.Is(err, domain.ErrOrphanedIdentity) {
			a.log.Warn().Str("account_id", account.ID).Msg("sign-in without developer profile")
			return nil, "", domain.ErrOrphanedIdentity
		}
		return nil, "", fmt.Errorf("lookup profile: %w", err)
	}

	token, err := a.mintToken(account)
	if err != nil {
		return nil, "", err
	}
	return &domain.Identity{Kind: domain.ActorDeveloper, Account: account, Profile: profile}, token, nil
}

func (a *DeveloperAuth) Logout(ctx context.Context, token string) error {
	return nil
}

// Current validates the JWT and re-fetches the profile, so a profile
// deleted mid-session invalidates the token on the next request.
func (a *DeveloperAuth) Current(ctx context.Context, token string) (*domain.Identity, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(a.jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrSessionNotFound
	}

	accountID, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if accountID == "" {
		return nil, domain.ErrSessionNotFound
	}

	profile, err := a.profiles.FindByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrOrphanedIdentity) {
			return nil, domain.ErrOrphanedIdentity
		}
		return nil, fmt.Errorf("resolve developer session: %w", err)
	}

	account := &domain.Account{ID: accountID, Email: email}
	return &domain.Identity{Kind: domain.ActorDeveloper, Account: account, Profile: profile}, nil
}

func (a *DeveloperAuth) mintToken(account *domain.Account) (string, error) {
	claims := jwt.MapClaims{
		"sub":   account.ID,
		"email": account.Email,
		"role":  domain.RoleDeveloper,
		"exp":   time.Now().Add(a.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(a.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
