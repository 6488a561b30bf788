package domain

import (
	"regexp"
	"strings"
	"time"
)

// Client is a portal tenant. AccessKey is the human-typed credential a
// client signs in with; IsPro unlocks the pro dashboard and its live feed.
type Client struct {
	ID        string    `json:"id"`
	AccessKey string    `json:"access_key"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	IsPro     bool      `json:"is_pro"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// accessKeyPattern matches keys of the form PREFIX-XXXX, e.g. "CLT-7F2K".
var accessKeyPattern = regexp.MustCompile(`^[A-Z]{2,5}-[A-Z0-9]{4}$`)

// NormalizeAccessKey canonicalizes a user-typed access key: surrounding
// whitespace is stripped and the key is uppercased. The operation is
// idempotent, so stored keys are always in normalized form.
func NormalizeAccessKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// ValidAccessKey reports whether key (already normalized) has the
// PREFIX-XXXX shape.
func ValidAccessKey(key string) bool {
	return accessKeyPattern.MatchString(key)
}
