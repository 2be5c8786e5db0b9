package auth

import "errors"

// Role represents an authorisation tier.
type Role string

// Role constants.
const (
	// RoleViewer may only read.
	RoleViewer Role = "viewer"

	// RoleOperator may update existing components.
	RoleOperator Role = "operator"

	// RoleAdmin may also replace the network by upload.
	RoleAdmin Role = "admin"
)

// ValidRoles lists every role a token may carry.
var ValidRoles = []Role{RoleViewer, RoleOperator, RoleAdmin}

// IsValidRole returns true if r is one of ValidRoles.
func IsValidRole(r Role) bool {
	for _, v := range ValidRoles {
		if v == r {
			return true
		}
	}
	return false
}

// Auth errors.
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrForbidden    = errors.New("insufficient permissions")
	ErrInvalidRole  = errors.New("invalid role")
	ErrEmptySecret  = errors.New("empty signing secret")
)
