package ports

import (
	"context"

	"github.com/brightfold/portal-api/internal/core/domain"
)

// Scope identifies who a data operation runs as. Admin and developer
// scopes may read across tenants; a client scope is bound to one
// tenant, and a client scope with an empty ClientID short-circuits
// reads to an empty result rather than issuing an unscoped query.
type Scope struct {
	Actor    domain.ActorKind
	ClientID string
}

// CrossTenant reports whether the scope may see every tenant's rows.
func (s Scope) CrossTenant() bool {
	return s.Actor == domain.ActorAdmin || s.Actor == domain.ActorDeveloper
}

// CreateProjectInput carries the data needed to open a new project.
type CreateProjectInput struct {
	ClientID    string
	Name        string
	Description string
}

// ProjectService defines use-case operations on projects.
type ProjectService interface {
	ListProjects(ctx context.Context, scope Scope) ([]domain.Project, error)
	GetProject(ctx context.Context, scope Scope, id string) (*domain.Project, error)
	CreateProject(ctx context.Context, input CreateProjectInput) (*domain.Project, error)
	UpdateProject(ctx context.Context, id string, patch ProjectPatch) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

// PostUpdateInput carries a new progress note for a project.
type PostUpdateInput struct {
	ProjectID string
	Title     string
	Body      string
	Author    string
}

// UpdateService defines use-case operations on project updates.
type UpdateService interface {
	ListUpdates(ctx context.Context, scope Scope) ([]domain.ProjectUpdate, error)
	ListProjectUpdates(ctx context.Context, scope Scope, projectID string) ([]domain.ProjectUpdate, error)
	PostUpdate(ctx context.Context, input PostUpdateInput) (*domain.ProjectUpdate, error)
	DeleteUpdate(ctx context.Context, id string) error
}

// UploadAssetInput carries a file to attach to a project.
type UploadAssetInput struct {
	ProjectID string
	Name      string
	Data      []byte
}

// AssetService defines use-case operations on project assets.
type AssetService interface {
	ListAssets(ctx context.Context, scope Scope) ([]domain.Asset, error)
	UploadAsset(ctx context.Context, input UploadAssetInput) (*domain.Asset, error)
	DeleteAsset(ctx context.Context, id string) error
}

// CreateClientInput carries the data needed to register a new client.
// The access key is generated server-side.
type CreateClientInput struct {
	Name    string
	Email   string
	Company string
	IsPro   bool
}

// ClientService defines the admin-facing client management operations,
// including the pro-tier toggle.
type ClientService interface {
	ListClients(ctx context.Context) ([]domain.Client, error)
	CreateClient(ctx context.Context, input CreateClientInput) (*domain.Client, error)
	UpdateClient(ctx context.Context, id string, patch ClientPatch) (*domain.Client, error)
	DeleteClient(ctx context.Context, id string) error
}
