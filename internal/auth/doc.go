// Package auth issues and validates the bearer tokens that guard the
// mutating API routes.
//
// Tokens are HS256 JWTs carrying a subject and a role. Roles map statically
// to permissions:
//   - viewer: read components, schemas and history
//   - operator: viewer plus component updates
//   - admin: operator plus network uploads
//
// Read routes stay open; only uploads and updates check a token, and only
// when security.auth_enabled is set.
package auth
