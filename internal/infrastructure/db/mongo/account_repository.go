package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brightfold/portal-api/internal/core/domain"
)

const (
	accountCollection = "accounts"
	profileCollection = "developer_profiles"
	roleCollection    = "role_grants"
)

// AccountRepository persists credentialed accounts.
type AccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{coll: db.Collection(accountCollection)}
}

type mongoAccount struct {
	ID           string `bson:"_id"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"password_hash"`
	CreatedAt    int64  `bson:"created_at"`
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var ma mongoAccount
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account by email: %w", err)
	}
	return ma.toDomain(), nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	var ma mongoAccount
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return ma.toDomain(), nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	doc := mongoAccount{
		ID:           account.ID,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		CreatedAt:    account.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAccountExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (ma *mongoAccount) toDomain() *domain.Account {
	return &domain.Account{
		ID:           ma.ID,
		Email:        ma.Email,
		PasswordHash: ma.PasswordHash,
		CreatedAt:    unixToTime(ma.CreatedAt),
	}
}

// ProfileRepository persists developer profiles.
type ProfileRepository struct {
	coll *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{coll: db.Collection(profileCollection)}
}

type mongoProfile struct {
	ID        string   `bson:"_id"`
	AccountID string   `bson:"account_id"`
	Name      string   `bson:"name"`
	Skills    []string `bson:"skills,omitempty"`
	CreatedAt int64    `bson:"created_at"`
}

// FindByAccountID returns domain.ErrOrphanedIdentity when the account
// has no profile: the caller treats that as "not a developer account".
func (r *ProfileRepository) FindByAccountID(ctx context.Context, accountID string) (*domain.DeveloperProfile, error) {
	var mp mongoProfile
	if err := r.coll.FindOne(ctx, bson.M{"account_id": accountID}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrphanedIdentity
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &domain.DeveloperProfile{
		ID:        mp.ID,
		AccountID: mp.AccountID,
		Name:      mp.Name,
		Skills:    mp.Skills,
		CreatedAt: unixToTime(mp.CreatedAt),
	}, nil
}

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.DeveloperProfile) error {
	doc := mongoProfile{
		ID:        profile.ID,
		AccountID: profile.AccountID,
		Name:      profile.Name,
		Skills:    profile.Skills,
		CreatedAt: profile.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// RoleRepository records role grants.
type RoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{coll: db.Collection(roleCollection)}
}

func (r *RoleRepository) Grant(ctx context.Context, accountID, role string) error {
	doc := bson.M{
		"_id":        uuid.NewString(),
		"account_id": accountID,
		"role":       role,
		"created_at": time.Now().UTC().Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert role grant: %w", err)
	}
	return nil
}
