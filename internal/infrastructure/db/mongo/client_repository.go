package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/brightfold/portal-api/internal/core/domain"
	"github.com/brightfold/portal-api/internal/core/ports"
)

const clientCollection = "clients"

type ClientRepository struct {
	coll *mongo.Collection
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{coll: db.Collection(clientCollection)}
}

type mongoClient struct {
	ID        string `bson:"_id"`
	AccessKey string `bson:"access_key"`
	Name      string `bson:"name"`
	Email     string `bson:"email"`
	Company   string `bson:"company,omitempty"`
	IsPro     bool   `bson:"is_pro"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (r *ClientRepository) FindByAccessKey(ctx context.Context, key string) (*domain.Client, error) {
	var mc mongoClient
	if err := r.coll.FindOne(ctx, bson.M{"access_key": key}).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("find client by key: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	var mc mongoClient
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("find client: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *ClientRepository) List(ctx context.Context) ([]domain.Client, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer cursor.Close(ctx)

	clients := []domain.Client{}
	for cursor.Next(ctx) {
		var mc mongoClient
		if err := cursor.Decode(&mc); err != nil {
			return nil, fmt.Errorf("decode client: %w", err)
		}
		clients = append(clients, *mc.toDomain())
	}
	return clients, cursor.Err()
}

func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	doc := mongoClient{
		ID:        client.ID,
		AccessKey: client.AccessKey,
		Name:      client.Name,
		Email:     client.Email,
		Company:   client.Company,
		IsPro:     client.IsPro,
		CreatedAt: client.CreatedAt.Unix(),
		UpdatedAt: client.UpdatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateKey
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (r *ClientRepository) Update(ctx context.Context, id string, patch ports.ClientPatch) (*domain.Client, error) {
	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Company != nil {
		set["company"] = *patch.Company
	}
	if patch.IsPro != nil {
		set["is_pro"] = *patch.IsPro
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrClientNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (mc *mongoClient) toDomain() *domain.Client {
	return &domain.Client{
		ID:        mc.ID,
		AccessKey: mc.AccessKey,
		Name:      mc.Name,
		Email:     mc.Email,
		Company:   mc.Company,
		IsPro:     mc.IsPro,
		CreatedAt: unixToTime(mc.CreatedAt),
		UpdatedAt: unixToTime(mc.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
