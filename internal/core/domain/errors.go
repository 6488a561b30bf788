package domain

import "errors"

// Credential and identity errors. Handlers map these to user-facing
// messages; raw collaborator errors are logged, never rendered.
var (
	ErrDeniedCredential = errors.New("credential denied")
	ErrOrphanedIdentity = errors.New("account has no developer profile")
	ErrSessionNotFound  = errors.New("session not found")
	ErrProRequired      = errors.New("pro tier required")
	ErrForbidden        = errors.New("access forbidden")
)

// ErrScopeViolation marks a fetch or mutation issued without the tenant
// scope it requires. This is a programming invariant, not a user error.
var ErrScopeViolation = errors.New("operation issued without tenant scope")

// Entity errors.
var (
	ErrClientNotFound  = errors.New("client not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrUpdateNotFound  = errors.New("project update not found")
	ErrAssetNotFound   = errors.New("asset not found")
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
	ErrDuplicateKey    = errors.New("access key already assigned")
	ErrInvalidStatus   = errors.New("invalid project status")
)
