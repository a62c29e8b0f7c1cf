package model

import "github.com/google/uuid"

// Principal is the authenticated caller extracted from the access token.
type Principal struct {
	UserID uuid.UUID
	OrgID  uuid.UUID
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == "ADMIN"
}

func (p Principal) IsDispatcher() bool {
	return p.Role == "DISPATCHER"
}

func (p Principal) IsDriver() bool {
	return p.Role == "DRIVER"
}

// CanMutate reports whether the caller may propose trip/load mutations.
// Drivers get a read-only view.
func (p Principal) CanMutate() bool {
	return p.IsAdmin() || p.IsDispatcher()
}
