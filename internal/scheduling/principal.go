package scheduling

import (
	"clinic-api-server/internal/models"
)

// Principal is the authenticated caller as seen by the rule functions.
// It is built from token claims by the auth middleware and passed
// explicitly; rules never read identity from ambient state.
type Principal struct {
	UserID string
	Role   models.Role
	// RoleScopedID is the id of the Patient/Doctor/Clerk profile tied
	// to the user, distinct from the user id itself.
	RoleScopedID string
}

// IsClerk reports whether the caller holds the Clerk role.
func (p Principal) IsClerk() bool {
	return p.Role == models.RoleClerk
}
