package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/brightfold/portal-api/internal/core/domain"
	"github.com/brightfold/portal-api/internal/core/ports"
)

type stubAccountRepo struct {
	accounts map[string]*domain.Account
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) error {
	for _, a := range r.accounts {
		if a.Email == account.Email {
			return domain.ErrAccountExists
		}
	}
	clone := *account
	r.accounts[account.ID] = &clone
	return nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.Email == email {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *a
	return &clone, nil
}

type stubProfileRepo struct {
	profiles   map[string]*domain.DeveloperProfile
	failCreate bool
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{profiles: make(map[string]*domain.DeveloperProfile)}
}

func (r *stubProfileRepo) Create(_ context.Context, profile *domain.DeveloperProfile) error {
	if r.failCreate {
		return errors.New("write failed")
	}
	clone := *profile
	r.profiles[profile.AccountID] = &clone
	return nil
}

func (r *stubProfileRepo) FindByAccountID(_ context.Context, accountID string) (*domain.DeveloperProfile, error) {
	p, ok := r.profiles[accountID]
	if !ok {
		return nil, domain.ErrOrphanedIdentity
	}
	clone := *p
	return &clone, nil
}

type stubRoleRepo struct {
	grants map[string]string
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{grants: make(map[string]string)}
}

func (r *stubRoleRepo) Grant(_ context.Context, accountID, role string) error {
	r.grants[accountID] = role
	return nil
}

func newDeveloperAuth(accounts *stubAccountRepo, profiles *stubProfileRepo, roles *stubRoleRepo) *DeveloperAuth {
	return NewDeveloperAuth(accounts, profiles, roles, "secret", time.Hour, zerolog.Nop())
}

func TestDeveloperAuth_SignUp_Success(t *testing.T) {
	accounts := newStubAccountRepo()
	profiles := newStubProfileRepo()
	roles := newStubRoleRepo()
	auth := newDeveloperAuth(accounts, profiles, roles)

	identity, token, err := auth.SignUp(context.Background(), ports.SignUpInput{
		Email:    "dev@example.com",
		Password: "s3cret",
		Name:     "Dev One",
		Skills:   []string{"go"},
	})
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if identity.Kind != domain.ActorDeveloper || identity.Account == nil || identity.Profile == nil {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if identity.Account.PasswordHash == "s3cret" {
		t.Fatalf("expected password to be hashed")
	}
	if roles.grants[identity.Account.ID] != domain.RoleDeveloper {
		t.Fatalf("expected developer role grant")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != identity.Account.ID {
		t.Fatalf("expected sub %s, got %v", identity.Account.ID, claims["sub"])
	}
}

func TestDeveloperAuth_SignUp_ProfileCreateFails(t *testing.T) {
	accounts := newStubAccountRepo()
	profiles := newStubProfileRepo()
	profiles.failCreate = true
	auth := newDeveloperAuth(accounts, profiles, newStubRoleRepo())

	_, _, err := auth.SignUp(context.Background(), ports.SignUpInput{
		Email:    "dev@example.com",
		Password: "s3cret",
		Name:     "Dev One",
	})
	if !errors.Is(err, domain.ErrOrphanedIdentity) {
		t.Fatalf("expected ErrOrphanedIdentity, got %v", err)
	}
	// The account write already happened; it is reported, not rolled back.
	if len(accounts.accounts) != 1 {
		t.Fatalf("expected orphaned account to remain, have %d", len(accounts.accounts))
	}
}

func TestDeveloperAuth_Login_Success(t *testing.T) {
	accounts := newStubAccountRepo()
	profiles := newStubProfileRepo()
	auth := newDeveloperAuth(accounts, profiles, newStubRoleRepo())

	if _, _, err := auth.SignUp(context.Background(), ports.SignUpInput{Email: "dev@example.com", Password: "s3cret", Name: "Dev One"}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	identity, token, err := auth.Login(context.Background(), ports.Credentials{Email: "dev@example.com", Password: "s3cret"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if identity.Profile == nil {
		t.Fatalf("expected profile on developer identity")
	}
}

func TestDeveloperAuth_Login_WrongPassword(t *testing.T) {
	accounts := newStubAccountRepo()
	profiles := newStubProfileRepo()
	auth := newDeveloperAuth(accounts, profiles, newStubRoleRepo())

	_, _, _ = auth.SignUp(context.Background(), ports.SignUpInput{Email: "dev@example.com", Password: "s3cret", Name: "Dev One"})

	if _, _, err := auth.Login(context.Background(), ports.Credentials{Email: "dev@example.com", Password: "wrong"}); err != domain.ErrDeniedCredential {
		t.Fatalf("expected ErrDeniedCredential, got %v", err)
	}
}

func TestDeveloperAuth_Login_MissingProfile(t *testing.T) {
	accounts := newStubAccountRepo()
	profiles := newStubProfileRepo()
	auth := newDeveloperAuth(accounts, profiles, newStubRoleRepo())

	if _, _, err := auth.SignUp(context.Background(), ports.SignUpInput{Email: "dev@example.com", Password: "s3cret", Name: "Dev One"}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	// Simulate an account whose profile write never landed.
	for id := range profiles.profiles {
		delete(profiles.profiles, id)
	}

	_, token, err := auth.Login(context.Background(), ports.Credentials{Email: "dev@example.com", Password: "s3cret"})
	if !errors.Is(err, domain.ErrOrphanedIdentity) {
		t.Fatalf("expected ErrOrphanedIdentity, got %v", err)
	}
	if token != "" {
		t.Fatalf("no token should be minted for an orphaned identity")
	}
}

func TestDeveloperAuth_Current_RoundTrip(t *testing.T) {
	accounts := newStubAccountRepo()
	profiles := newStubProfileRepo()
	auth := newDeveloperAuth(accounts, profiles, newStubRoleRepo())

	_, token, err := auth.SignUp(context.Background(), ports.SignUpInput{Email: "dev@example.com", Password: "s3cret", Name: "Dev One"})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	identity, err := auth.Current(context.Background(), token)
	if err != nil {
		t.Fatalf("Current returned error: %v", err)
	}
	if identity.Kind != domain.ActorDeveloper || identity.Profile == nil {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if identity.Account.Email != "dev@example.com" {
		t.Fatalf("unexpected email: %s", identity.Account.Email)
	}
}

func TestDeveloperAuth_Current_BadToken(t *testing.T) {
	auth := newDeveloperAuth(newStubAccountRepo(), newStubProfileRepo(), newStubRoleRepo())

	if _, err := auth.Current(context.Background(), "not-a-token"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
