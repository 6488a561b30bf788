package ports

import "context"

// Notification kinds emitted by entity services.
const (
	NotifyUpdatePosted   = "update_posted"
	NotifyProjectCreated = "project_created"
	NotifyProjectDeleted = "project_deleted"
)

// Notification is an outbound, fire-and-forget message (email trigger,
// webhook). Delivery failure is logged and never blocks the write that
// produced it.
type Notification struct {
	Kind     string         `json:"kind"`
	TenantID string         `json:"tenant_id"`
	Payload  map[string]any `json:"payload,omitempty"`
}

// Notifier delivers a single notification.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// ObjectStorage stores raw bytes and returns a public URL for them.
// Consumed by the asset flow; upload mechanics are the collaborator's.
type ObjectStorage interface {
	Put(ctx context.Context, bucket, path string, data []byte) (string, error)
}
