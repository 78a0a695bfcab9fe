package domain

import "github.com/google/uuid"

// Principal is the caller identity handed to core services. Handlers build
// it from verified token claims; services never read ambient state.
type Principal struct {
	UserID uuid.UUID
	Role   Role
}

// SystemPrincipal acts for background jobs that run on behalf of admins.
var SystemPrincipal = Principal{Role: RoleAdmin}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
