package model

// Role is the access level attached to an authenticated identity.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Actor is the authenticated identity performing an operation.
// It is supplied by the upstream auth layer and passed explicitly into every
// service call; the core never reads identity from ambient state.
type Actor struct {
	UserID string
	Role   Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Owns reports whether the actor is the owner of a resource belonging to userID.
func (a Actor) Owns(userID string) bool {
	return a.UserID != "" && a.UserID == userID
}
