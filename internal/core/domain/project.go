package domain

import "time"

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	StatusPlanning ProjectStatus = "planning"
	StatusActive   ProjectStatus = "active"
	StatusReview   ProjectStatus = "review"
	StatusDone     ProjectStatus = "done"
)

// ValidStatus reports whether s is a known project status.
func ValidStatus(s ProjectStatus) bool {
	switch s {
	case StatusPlanning, StatusActive, StatusReview, StatusDone:
		return true
	}
	return false
}

// Project is the core aggregate, always owned by exactly one client.
type Project struct {
	ID          string        `json:"id"`
	ClientID    string        `json:"client_id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status"`
	Progress    int           `json:"progress"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ProjectUpdate is a progress note posted against a project. It is the
// collection the pro dashboard's live feed watches.
type ProjectUpdate struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	ClientID  string    `json:"client_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// Asset is a stored file attached to a project. Upload mechanics live in
// the object-storage collaborator; only the record is held here.
type Asset struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	ClientID  string    `json:"client_id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}
