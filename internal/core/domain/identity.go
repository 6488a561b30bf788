package domain

import "time"

// ActorKind names one of the portal's actor classes.
type ActorKind string

const (
	ActorAdmin     ActorKind = "admin"
	ActorClient    ActorKind = "client"
	ActorDeveloper ActorKind = "developer"
)

// Identity is the resolved result of an authentication scheme. Exactly
// the fields relevant to the actor kind are populated.
type Identity struct {
	Kind    ActorKind         `json:"kind"`
	Client  *Client           `json:"client,omitempty"`
	Account *Account          `json:"account,omitempty"`
	Profile *DeveloperProfile `json:"profile,omitempty"`
}

// IsPro reports whether the identity is a client on the pro tier. The
// tier is derived from the client record, never stored on its own.
func (id *Identity) IsPro() bool {
	return id != nil && id.Kind == ActorClient && id.Client != nil && id.Client.IsPro
}

// TenantID returns the client id scoping this identity's data, or ""
// when the identity carries no tenant scope.
func (id *Identity) TenantID() string {
	if id == nil || id.Client == nil {
		return ""
	}
	return id.Client.ID
}

// Session is the persisted server-side state behind an admin or client
// bearer token. Developer sessions are stateless JWTs and never appear
// here.
type Session struct {
	Token     string    `json:"token"`
	Kind      ActorKind `json:"kind"`
	ClientID  string    `json:"client_id,omitempty"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
