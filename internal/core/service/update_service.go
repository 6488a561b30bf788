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

// UpdateService implements progress-note use cases. Posted updates are
// the events the pro dashboard's live feed is built on.
type UpdateService struct {
	updates  ports.UpdateRepository
	projects ports.ProjectRepository
	feed     ports.ChangeFeed
	notifier ports.Notifier
	log      zerolog.Logger
}

func NewUpdateService(updates ports.UpdateRepository, projects ports.ProjectRepository, feed ports.ChangeFeed, notifier ports.Notifier, log zerolog.Logger) *UpdateService {
	return &UpdateService{updates: updates, projects: projects, feed: feed, notifier: notifier, log: log}
}

func (s *UpdateService) ListUpdates(ctx context.Context, scope ports.Scope) ([]domain.ProjectUpdate, error) {
	// Updates are always read per tenant; admins and developers read
	// per project via ListProjectUpdates instead.
	if scope.ClientID == "" {
		return []domain.ProjectUpdate{}, nil
	}
	return s.updates.ListByClient(ctx, scope.ClientID)
}

func (s *UpdateService) ListProjectUpdates(ctx context.Context, scope ports.Scope, projectID string) ([]domain.ProjectUpdate, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !scope.CrossTenant() && project.ClientID != scope.ClientID {
		return nil, domain.ErrProjectNotFound
	}
	return s.updates.ListByProject(ctx, projectID)
}

// PostUpdate resolves the owning project to pin the tenant scope, then
// persists the note, publishes the insert on the change feed, and fires
// the outbound notification.
func (s *UpdateService) PostUpdate(ctx context.Context, input ports.PostUpdateInput) (*domain.ProjectUpdate, error) {
	if input.ProjectID == "" {
		return nil, domain.ErrScopeViolation
	}
	project, err := s.projects.FindByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}

	update := &domain.ProjectUpdate{
		ID:        uuid.NewString(),
		ProjectID: project.ID,
		ClientID:  project.ClientID,
		Title:     input.Title,
		Body:      input.Body,
		Author:    input.Author,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.updates.Create(ctx, update); err != nil {
		return nil, err
	}

	s.publish(ctx, ports.ChangeInsert, update)
	s.notify(ctx, update)
	s.log.Info().Str("update_id", update.ID).Str("project_id", update.ProjectID).Msg("project update posted")
	return update, nil
}

func (s *UpdateService) DeleteUpdate(ctx context.Context, id string) error {
	update, err := s.updates.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.updates.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, ports.ChangeDelete, update)
	return nil
}

func (s *UpdateService) publish(ctx context.Context, kind ports.ChangeKind, update *domain.ProjectUpdate) {
	row, err := json.Marshal(update)
	if err != nil {
		s.log.Error().Err(err).Str("update_id", update.ID).Msg("encode change event")
		return
	}
	event := ports.ChangeEvent{
		Kind:     kind,
		Table:    ports.TableProjectUpdates,
		TenantID: update.ClientID,
		Row:      row,
	}
	if err := s.feed.Publish(ctx, event); err != nil {
		s.log.Error().Err(err).Str("update_id", update.ID).Msg("publish change event")
	}
}

func (s *UpdateService) notify(ctx context.Context, update *domain.ProjectUpdate) {
	n := ports.Notification{
		Kind:     ports.NotifyUpdatePosted,
		TenantID: update.ClientID,
		Payload: map[string]any{
			"project_id": update.ProjectID,
			"title":      update.Title,
			"author":     update.Author,
		},
	}
	if err := s.notifier.Send(ctx, n); err != nil {
		s.log.Error().Err(err).Msg("notification dispatch failed")
	}
}
