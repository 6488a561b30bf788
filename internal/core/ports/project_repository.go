package ports

import (
	"context"

	"github.com/brightfold/portal-api/internal/core/domain"
)

// ProjectPatch carries the mutable project fields; nil means "leave as is".
type ProjectPatch struct {
	Name        *string
	Description *string
	Status      *domain.ProjectStatus
	Progress    *int
}

// ProjectRepository defines persistence for projects.
type ProjectRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.Project, error)
	ListAll(ctx context.Context) ([]domain.Project, error)
	Create(ctx context.Context, project *domain.Project) error
	Update(ctx context.Context, id string, patch ProjectPatch) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

// UpdateRepository defines persistence for project updates.
type UpdateRepository interface {
	FindByID(ctx context.Context, id string) (*domain.ProjectUpdate, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.ProjectUpdate, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.ProjectUpdate, error)
	Create(ctx context.Context, update *domain.ProjectUpdate) error
	Delete(ctx context.Context, id string) error
}

// AssetRepository defines persistence for asset records.
type AssetRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Asset, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.Asset, error)
	Create(ctx context.Context, asset *domain.Asset) error
	Delete(ctx context.Context, id string) error
}
