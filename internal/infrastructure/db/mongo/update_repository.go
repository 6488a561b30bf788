package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/brightfold/portal-api/internal/core/domain"
)

const updateCollection = "project_updates"

type UpdateRepository struct {
	coll *mongo.Collection
}

func NewUpdateRepository(db *mongo.Database) *UpdateRepository {
	return &UpdateRepository{coll: db.Collection(updateCollection)}
}

type mongoUpdate struct {
	ID        string `bson:"_id"`
	ProjectID string `bson:"project_id"`
	ClientID  string `bson:"client_id"`
	Title     string `bson:"title"`
	Body      string `bson:"body,omitempty"`
	Author    string `bson:"author"`
	CreatedAt int64  `bson:"created_at"`
}

func (r *UpdateRepository) FindByID(ctx context.Context, id string) (*domain.ProjectUpdate, error) {
	var mu mongoUpdate
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUpdateNotFound
		}
		return nil, fmt.Errorf("find update: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UpdateRepository) ListByClient(ctx context.Context, clientID string) ([]domain.ProjectUpdate, error) {
	return r.list(ctx, bson.M{"client_id": clientID})
}

func (r *UpdateRepository) ListByProject(ctx context.Context, projectID string) ([]domain.ProjectUpdate, error) {
	return r.list(ctx, bson.M{"project_id": projectID})
}

func (r *UpdateRepository) list(ctx context.Context, filter bson.M) ([]domain.ProjectUpdate, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list updates: %w", err)
	}
	defer cursor.Close(ctx)

	updates := []domain.ProjectUpdate{}
	for cursor.Next(ctx) {
		var mu mongoUpdate
		if err := cursor.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode update: %w", err)
		}
		updates = append(updates, *mu.toDomain())
	}
	return updates, cursor.Err()
}

func (r *UpdateRepository) Create(ctx context.Context, update *domain.ProjectUpdate) error {
	doc := mongoUpdate{
		ID:        update.ID,
		ProjectID: update.ProjectID,
		ClientID:  update.ClientID,
		Title:     update.Title,
		Body:      update.Body,
		Author:    update.Author,
		CreatedAt: update.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert update: %w", err)
	}
	return nil
}

func (r *UpdateRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete update: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUpdateNotFound
	}
	return nil
}

func (mu *mongoUpdate) toDomain() *domain.ProjectUpdate {
	return &domain.ProjectUpdate{
		ID:        mu.ID,
		ProjectID: mu.ProjectID,
		ClientID:  mu.ClientID,
		Title:     mu.Title,
		Body:      mu.Body,
		Author:    mu.Author,
		CreatedAt: unixToTime(mu.CreatedAt),
	}
}
