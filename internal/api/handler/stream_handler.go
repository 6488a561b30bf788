package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/brightfold/portal-api/internal/core/domain"
	"github.com/brightfold/portal-api/internal/core/hooks"
	"github.com/brightfold/portal-api/internal/core/ports"
)

const heartbeatInterval = 30 * time.Second

// StreamHandler serves the pro dashboard's live project-update feed as
// Server-Sent Events. One subscription exists per open stream per
// tenant; closing the request releases it, so a reconnect never
// receives duplicate deliveries.
type StreamHandler struct {
	feed    ports.ChangeFeed
	updates ports.UpdateRepository
	log     zerolog.Logger
}

func NewStreamHandler(feed ports.ChangeFeed, updates ports.UpdateRepository, log zerolog.Logger) *StreamHandler {
	return &StreamHandler{feed: feed, updates: updates, log: log}
}

// noticeEvent is the non-blocking toast pushed alongside each applied
// change.
type noticeEvent struct {
	Kind  ports.ChangeKind `json:"kind"`
	Table string           `json:"table"`
	Title string           `json:"title,omitempty"`
}

// ProjectUpdates streams the tenant's update collection. The first
// event is a full snapshot; each change event triggers a full re-fetch
// of the rows followed by a notice. The stream is eventually
// consistent: a re-fetch racing a later event resolves on the next
// event, last write wins.
func (h *StreamHandler) ProjectUpdates(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	tenantID := identity.TenantID()
	if tenantID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "session missing client identity")
	}

	// Subscribe before the initial fetch so a mutation landing between
	// the two is observed rather than lost.
	sub, err := h.feed.Subscribe(ports.TableProjectUpdates, tenantID)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	ctx := c.Request().Context()
	coll := hooks.NewCollection(tenantID,
		func(ctx context.Context) ([]domain.ProjectUpdate, error) {
			return h.updates.ListByClient(ctx, tenantID)
		},
		func(u domain.ProjectUpdate) string { return u.ID },
	)

	rows, err := coll.Fetch(ctx)
	if err != nil {
		return err
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	if err := writeSSE(res, "snapshot", rows); err != nil {
		return nil
	}

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-heartbeat.C:
			if _, err := fmt.Fprint(res, ": keepalive\n\n"); err != nil {
				return nil
			}
			res.Flush()
		case event, ok := <-sub.Events():
			if !ok {
				return nil
			}
			h.refetch(ctx, coll)
			if err := writeSSE(res, "rows", coll.Rows()); err != nil {
				return nil
			}
			if err := writeSSE(res, "notice", noticeFor(event)); err != nil {
				return nil
			}
		}
	}
}

// refetch reloads the collection after a server-pushed event. Every
// event kind reloads in full: the subscription opens before the
// snapshot, so an event may carry a row the snapshot already holds,
// and splicing it in locally would duplicate it. Optimistic patching
// is reserved for mutations the holder made itself. A fetch failure
// keeps the previous rows; the next event retries.
func (h *StreamHandler) refetch(ctx context.Context, coll *hooks.Collection[domain.ProjectUpdate]) {
	coll.Invalidate()
	if _, err := coll.Fetch(ctx); err != nil {
		h.log.Error().Err(err).Msg("stream re-fetch failed")
	}
}

func noticeFor(event ports.ChangeEvent) noticeEvent {
	n := noticeEvent{Kind: event.Kind, Table: event.Table}
	var update domain.ProjectUpdate
	if err := json.Unmarshal(event.Row, &update); err == nil {
		n.Title = update.Title
	}
	return n
}

// writeSSE renders one named SSE event and flushes it.
func writeSSE(res *echo.Response, name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	res.Flush()
	return nil
}
