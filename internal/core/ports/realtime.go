package ports

import (
	"context"
	"encoding/json"
)

// Watched tables. Channel names are derived from (table, tenant), so a
// subscription can never observe another tenant's rows.
const (
	TableProjects       = "projects"
	TableProjectUpdates = "project_updates"
)

// ChangeKind tags a change-feed event.
type ChangeKind string

const (
	ChangeInsert ChangeKind = "insert"
	ChangeUpdate ChangeKind = "update"
	ChangeDelete ChangeKind = "delete"
)

// ChangeEvent is one server-pushed mutation on a watched table, scoped
// to a single tenant. Row holds the affected row for insert and delete;
// it may be empty for update, where subscribers re-fetch anyway.
type ChangeEvent struct {
	Kind     ChangeKind      `json:"kind"`
	Table    string          `json:"table"`
	TenantID string          `json:"tenant_id"`
	Row      json.RawMessage `json:"row,omitempty"`
}

// Subscription is one live attachment to a (table, tenant) channel.
// Events is closed by Unsubscribe. Unsubscribe is synchronous and
// idempotent: once it returns, no further event is delivered, queued
// or otherwise.
type Subscription interface {
	Events() <-chan ChangeEvent
	Unsubscribe()
}

// ChangeFeed is the realtime collaborator surface: publish a mutation,
// or subscribe to one tenant's slice of one table. The tenant filter is
// mandatory.
type ChangeFeed interface {
	Publish(ctx context.Context, event ChangeEvent) error
	Subscribe(table, tenantID string) (Subscription, error)
}
