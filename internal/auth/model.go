package auth

import (
	"time"

	"github.com/google/uuid"
)

// Roles a user can hold. Members file requests; reviewers additionally work
// the review queue and confirm payouts.
const (
	RoleMember   = "member"
	RoleReviewer = "reviewer"
)

// User represents a row in the users table.
type User struct {
	ID           uuid.UUID
	Name         string // pilot display name, recorded in audit entries
	Role         string // "member" or "reviewer"
	IsAdmin      bool
	ApiKeyPrefix string
	ApiKeyHash   string
	CreatedAt    time.Time
	RevokedAt    *time.Time
}

// Identity is stored in the request context after authentication.
type Identity struct {
	UserID  uuid.UUID
	Name    string
	Role    string
	IsAdmin bool
}

// IsReviewer reports whether the identity may perform reviewer operations.
// Admins implicitly may.
func (i *Identity) IsReviewer() bool {
	return i.Role == RoleReviewer || i.IsAdmin
}
