package auth

// Permission represents a named capability.
type Permission string

// Permission constants.
const (
	PermComponentRead   Permission = "component:read"
	PermComponentUpdate Permission = "component:update"
	PermNetworkUpload   Permission = "network:upload"
)

// rolePermissions maps each role to its granted permissions.
var rolePermissions = map[Role][]Permission{
	RoleViewer: {
		PermComponentRead,
	},
	RoleOperator: {
		PermComponentRead,
		PermComponentUpdate,
	},
	RoleAdmin: {
		PermComponentRead,
		PermComponentUpdate,
		PermNetworkUpload,
	},
}

// HasPermission returns true if the given role has the specified permission.
func HasPermission(role Role, perm Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// PermissionsForRole returns the permissions granted to role.
func PermissionsForRole(role Role) []Permission {
	perms := rolePermissions[role]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}
