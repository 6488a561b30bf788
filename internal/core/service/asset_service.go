package service

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/brightfold/portal-api/internal/core/domain"
	"github.com/brightfold/portal-api/internal/core/ports"
)

const assetBucket = "assets"

// AssetService stores project files through the object-storage
// collaborator and keeps a record per stored object.
type AssetService struct {
	assets   ports.AssetRepository
	projects ports.ProjectRepository
	storage  ports.ObjectStorage
	log      zerolog.Logger
}

func NewAssetService(assets ports.AssetRepository, projects ports.ProjectRepository, storage ports.ObjectStorage, log zerolog.Logger) *AssetService {
	return &AssetService{assets: assets, projects: projects, storage: storage, log: log}
}

func (s *AssetService) ListAssets(ctx context.Context, scope ports.Scope) ([]domain.Asset, error) {
	if scope.ClientID == "" {
		return []domain.Asset{}, nil
	}
	return s.assets.ListByClient(ctx, scope.ClientID)
}

func (s *AssetService) UploadAsset(ctx context.Context, input ports.UploadAssetInput) (*domain.Asset, error) {
	if input.ProjectID == "" {
		return nil, domain.ErrScopeViolation
	}
	project, err := s.projects.FindByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	objectPath := path.Join(project.ClientID, project.ID, id+"-"+input.Name)
	url, err := s.storage.Put(ctx, assetBucket, objectPath, input.Data)
	if err != nil {
		return nil, fmt.Errorf("store asset: %w", err)
	}

	asset := &domain.Asset{
		ID:        id,
		ProjectID: project.ID,
		ClientID:  project.ClientID,
		Name:      input.Name,
		URL:       url,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.assets.Create(ctx, asset); err != nil {
		return nil, err
	}

	s.log.Info().Str("asset_id", asset.ID).Str("project_id", project.ID).Msg("asset stored")
	return asset, nil
}

func (s *AssetService) DeleteAsset(ctx context.Context, id string) error {
	if _, err := s.assets.FindByID(ctx, id); err != nil {
		return err
	}
	return s.assets.Delete(ctx, id)
}
