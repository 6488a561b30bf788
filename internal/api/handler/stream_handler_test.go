package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/brightfold/portal-api/internal/api/middleware"
	"github.com/brightfold/portal-api/internal/core/domain"
	"github.com/brightfold/portal-api/internal/core/ports"
)

type stubSubscription struct {
	ch           chan ports.ChangeEvent
	once         sync.Once
	unsubscribed bool
}

func newStubSubscription() *stubSubscription {
	return &stubSubscription{ch: make(chan ports.ChangeEvent, 8)}
}

func (s *stubSubscription) Events() <-chan ports.ChangeEvent { return s.ch }

func (s *stubSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.unsubscribed = true
		close(s.ch)
	})
}

type stubChangeFeed struct {
	sub    *stubSubscription
	table  string
	tenant string
}

func (f *stubChangeFeed) Publish(_ context.Context, _ ports.ChangeEvent) error { return nil }

func (f *stubChangeFeed) Subscribe(table, tenantID string) (ports.Subscription, error) {
	f.table = table
	f.tenant = tenantID
	return f.sub, nil
}

// stubStreamRepo serves the rows and signals each list call, so the
// test can sequence events against fetches.
type stubStreamRepo struct {
	mu    sync.Mutex
	rows  []domain.ProjectUpdate
	calls chan struct{}
}

func newStubStreamRepo(rows ...domain.ProjectUpdate) *stubStreamRepo {
	return &stubStreamRepo{rows: rows, calls: make(chan struct{}, 8)}
}

func (r *stubStreamRepo) ListByClient(_ context.Context, _ string) ([]domain.ProjectUpdate, error) {
	r.mu.Lock()
	out := append([]domain.ProjectUpdate(nil), r.rows...)
	r.mu.Unlock()
	r.calls <- struct{}{}
	return out, nil
}

func (r *stubStreamRepo) setRows(rows ...domain.ProjectUpdate) {
	r.mu.Lock()
	r.rows = rows
	r.mu.Unlock()
}

func (r *stubStreamRepo) FindByID(_ context.Context, id string) (*domain.ProjectUpdate, error) {
	return nil, domain.ErrUpdateNotFound
}

func (r *stubStreamRepo) ListByProject(_ context.Context, _ string) ([]domain.ProjectUpdate, error) {
	return nil, nil
}

func (r *stubStreamRepo) Create(_ context.Context, _ *domain.ProjectUpdate) error { return nil }

func (r *stubStreamRepo) Delete(_ context.Context, _ string) error { return nil }

func waitSignal(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

// sseFrames extracts the data payloads per event name from a raw SSE body.
func sseFrames(body string) map[string][]string {
	frames := map[string][]string{}
	lines := strings.Split(body, "\n")
	for i := 0; i+1 < len(lines); i++ {
		if strings.HasPrefix(lines[i], "event: ") && strings.HasPrefix(lines[i+1], "data: ") {
			name := strings.TrimPrefix(lines[i], "event: ")
			frames[name] = append(frames[name], strings.TrimPrefix(lines[i+1], "data: "))
		}
	}
	return frames
}

func proIdentity() *domain.Identity {
	return &domain.Identity{
		Kind:   domain.ActorClient,
		Client: &domain.Client{ID: "client_1", IsPro: true},
	}
}

func TestStreamHandler_SnapshotThenEvent(t *testing.T) {
	u1 := domain.ProjectUpdate{ID: "u1", ProjectID: "p1", ClientID: "client_1", Title: "Kickoff"}
	repo := newStubStreamRepo(u1)
	feed := &stubChangeFeed{sub: newStubSubscription()}
	h := NewStreamHandler(feed, repo, zerolog.Nop())

	e := echo.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/pro/stream/updates", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.IdentityKey, proIdentity())

	done := make(chan struct{})
	go func() {
		if err := h.ProjectUpdates(c); err != nil {
			t.Errorf("handler error: %v", err)
		}
		close(done)
	}()

	// Initial snapshot fetch.
	waitSignal(t, repo.calls, "snapshot fetch")

	// Server adds a row; the insert event arrives on the subscription.
	u2 := domain.ProjectUpdate{ID: "u2", ProjectID: "p1", ClientID: "client_1", Title: "Shipped"}
	repo.setRows(u1, u2)
	row, _ := json.Marshal(u2)
	feed.sub.ch <- ports.ChangeEvent{
		Kind:     ports.ChangeInsert,
		Table:    ports.TableProjectUpdates,
		TenantID: "client_1",
		Row:      row,
	}

	// The event triggers a full re-fetch.
	waitSignal(t, repo.calls, "event re-fetch")

	cancel()
	waitSignal(t, done, "handler return")

	if feed.table != ports.TableProjectUpdates || feed.tenant != "client_1" {
		t.Fatalf("unexpected subscription: %s %s", feed.table, feed.tenant)
	}
	if !feed.sub.unsubscribed {
		t.Fatalf("subscription not released on disconnect")
	}

	frames := sseFrames(rec.Body.String())
	if len(frames["snapshot"]) != 1 {
		t.Fatalf("expected 1 snapshot frame, got %d", len(frames["snapshot"]))
	}
	if len(frames["rows"]) != 1 {
		t.Fatalf("expected 1 rows frame, got %d", len(frames["rows"]))
	}

	var rows []domain.ProjectUpdate
	if err := json.Unmarshal([]byte(frames["rows"][0]), &rows); err != nil {
		t.Fatalf("decode rows frame: %v", err)
	}
	if len(rows) != 2 || rows[0].ID != "u1" || rows[1].ID != "u2" {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	if len(frames["notice"]) != 1 {
		t.Fatalf("expected 1 notice frame, got %d", len(frames["notice"]))
	}
	var notice struct {
		Kind  string `json:"kind"`
		Title string `json:"title"`
	}
	if err := json.Unmarshal([]byte(frames["notice"][0]), &notice); err != nil {
		t.Fatalf("decode notice frame: %v", err)
	}
	if notice.Kind != "insert" || notice.Title != "Shipped" {
		t.Fatalf("unexpected notice: %+v", notice)
	}
}

func TestStreamHandler_EventForRowAlreadyInSnapshot(t *testing.T) {
	// The subscription opens before the snapshot, so an insert that
	// landed in between can carry a row the snapshot already holds.
	// The re-fetch must render it once.
	u1 := domain.ProjectUpdate{ID: "u1", ProjectID: "p1", ClientID: "client_1", Title: "Kickoff"}
	repo := newStubStreamRepo(u1)
	feed := &stubChangeFeed{sub: newStubSubscription()}
	h := NewStreamHandler(feed, repo, zerolog.Nop())

	e := echo.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/pro/stream/updates", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.IdentityKey, proIdentity())

	done := make(chan struct{})
	go func() {
		if err := h.ProjectUpdates(c); err != nil {
			t.Errorf("handler error: %v", err)
		}
		close(done)
	}()

	waitSignal(t, repo.calls, "snapshot fetch")

	row, _ := json.Marshal(u1)
	feed.sub.ch <- ports.ChangeEvent{
		Kind:     ports.ChangeInsert,
		Table:    ports.TableProjectUpdates,
		TenantID: "client_1",
		Row:      row,
	}

	waitSignal(t, repo.calls, "event re-fetch")

	cancel()
	waitSignal(t, done, "handler return")

	frames := sseFrames(rec.Body.String())
	if len(frames["rows"]) != 1 {
		t.Fatalf("expected 1 rows frame, got %d", len(frames["rows"]))
	}
	var rows []domain.ProjectUpdate
	if err := json.Unmarshal([]byte(frames["rows"][0]), &rows); err != nil {
		t.Fatalf("decode rows frame: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "u1" {
		t.Fatalf("row duplicated in client-held state: %+v", rows)
	}
}

func TestStreamHandler_MissingTenant(t *testing.T) {
	repo := newStubStreamRepo()
	feed := &stubChangeFeed{sub: newStubSubscription()}
	h := NewStreamHandler(feed, repo, zerolog.Nop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/pro/stream/updates", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.IdentityKey, &domain.Identity{Kind: domain.ActorClient})

	err := h.ProjectUpdates(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
