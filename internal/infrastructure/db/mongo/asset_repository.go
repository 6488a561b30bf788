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

const assetCollection = "assets"

type AssetRepository struct {
	coll *mongo.Collection
}

func NewAssetRepository(db *mongo.Database) *AssetRepository {
	return &AssetRepository{coll: db.Collection(assetCollection)}
}

type mongoAsset struct {
	ID        string `bson:"_id"`
	ProjectID string `bson:"project_id"`
	ClientID  string `bson:"client_id"`
	Name      string `bson:"name"`
	URL       string `bson:"url"`
	CreatedAt int64  `bson:"created_at"`
}

func (r *AssetRepository) FindByID(ctx context.Context, id string) (*domain.Asset, error) {
	var ma mongoAsset
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, fmt.Errorf("find asset: %w", err)
	}
	return ma.toDomain(), nil
}

func (r *AssetRepository) ListByClient(ctx context.Context, clientID string) ([]domain.Asset, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"client_id": clientID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer cursor.Close(ctx)

	assets := []domain.Asset{}
	for cursor.Next(ctx) {
		var ma mongoAsset
		if err := cursor.Decode(&ma); err != nil {
			return nil, fmt.Errorf("decode asset: %w", err)
		}
		assets = append(assets, *ma.toDomain())
	}
	return assets, cursor.Err()
}

func (r *AssetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	doc := mongoAsset{
		ID:        asset.ID,
		ProjectID: asset.ProjectID,
		ClientID:  asset.ClientID,
		Name:      asset.Name,
		URL:       asset.URL,
		CreatedAt: asset.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert asset: %w", err)
	}
	return nil
}

func (r *AssetRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAssetNotFound
	}
	return nil
}

func (ma *mongoAsset) toDomain() *domain.Asset {
	return &domain.Asset{
		ID:        ma.ID,
		ProjectID: ma.ProjectID,
		ClientID:  ma.ClientID,
		Name:      ma.Name,
		URL:       ma.URL,
		CreatedAt: unixToTime(ma.CreatedAt),
	}
}
