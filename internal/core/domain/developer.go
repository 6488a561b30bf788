package domain

import "time"

const RoleDeveloper = "developer"

// Account is a credentialed identity in the account service. It is only
// half of a developer identity; a DeveloperProfile keyed by the account
// must also exist.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// DeveloperProfile completes a developer identity. An account without a
// profile is an orphaned identity and must never yield a usable session.
type DeveloperProfile struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Name      string    `json:"name"`
	Skills    []string  `json:"skills,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RoleGrant records a role held by an account.
type RoleGrant struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
