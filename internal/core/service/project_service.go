package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/brightfold/portal-api/internal/core/domain"
	"github.com/brightfold/portal-api/internal/core/ports"
)

// ProjectService implements project use cases. Reads are tenant-scoped;
// successful mutations publish a change-feed event and a fire-and-forget
// notification, neither of which may fail the primary write.
type ProjectService struct {
	repo     ports.ProjectRepository
	feed     ports.ChangeFeed
	notifier ports.Notifier
	log      zerolog.Logger
}

func NewProjectService(repo ports.ProjectRepository, feed ports.ChangeFeed, notifier ports.Notifier, log zerolog.Logger) *ProjectService {
	return &ProjectService{repo: repo, feed: feed, notifier: notifier, log: log}
}

func (s *ProjectService) ListProjects(ctx context.Context, scope ports.Scope) ([]domain.Project, error) {
	if scope.CrossTenant() {
		return s.repo.ListAll(ctx)
	}
	// A client scope without a tenant id never reaches the store.
	if scope.ClientID == "" {
		return []domain.Project{}, nil
	}
	return s.repo.ListByClient(ctx, scope.ClientID)
}

func (s *ProjectService) GetProject(ctx context.Context, scope ports.Scope, id string) (*domain.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.CrossTenant() && project.ClientID != scope.ClientID {
		// Cross-tenant reads surface as absence, not as a hint that the
		// row exists.
		return nil, domain.ErrProjectNotFound
	}
	return project, nil
}

func (s *ProjectService) CreateProject(ctx context.Context, input ports.CreateProjectInput) (*domain.Project, error) {
	if input.ClientID == "" {
		return nil, domain.ErrScopeViolation
	}

	now := time.Now().UTC()
	project := &domain.Project{
		ID:          uuid.NewString(),
		ClientID:    input.ClientID,
		Name:        input.Name,
		Description: input.Description,
		Status:      domain.StatusPlanning,
		Progress:    0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.publish(ctx, ports.ChangeInsert, project)
	s.notify(ctx, ports.NotifyProjectCreated, project)
	s.log.Info().Str("project_id", project.ID).Str("client_id", project.ClientID).Msg("project created")
	return project, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, id string, patch ports.ProjectPatch) (*domain.Project, error) {
	if patch.Status != nil && !domain.ValidStatus(*patch.Status) {
		return nil, domain.ErrInvalidStatus
	}
	project, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, ports.ChangeUpdate, project)
	return project, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, ports.ChangeDelete, project)
	s.notify(ctx, ports.NotifyProjectDeleted, project)
	return nil
}

// publish pushes a change event onto the feed. The feed is best-effort:
// a publish failure is logged and the mutation stands.
func (s *ProjectService) publish(ctx context.Context, kind ports.ChangeKind, project *domain.Project) {
	row, err := json.Marshal(project)
	if err != nil {
		s.log.Error().Err(err).Str("project_id", project.ID).Msg("encode change event")
		return
	}
	event := ports.ChangeEvent{
		Kind:     kind,
		Table:    ports.TableProjects,
		TenantID: project.ClientID,
		Row:      row,
	}
	if err := s.feed.Publish(ctx, event); err != nil {
		s.log.Error().Err(err).Str("project_id", project.ID).Msg("publish change event")
	}
}

func (s *ProjectService) notify(ctx context.Context, kind string, project *domain.Project) {
	n := ports.Notification{
		Kind:     kind,
		TenantID: project.ClientID,
		Payload: map[string]any{
			"project_id":   project.ID,
			"project_name": project.Name,
		},
	}
	if err := s.notifier.Send(ctx, n); err != nil {
		s.log.Error().Err(err).Str("kind", kind).Msg("notification dispatch failed")
	}
}
