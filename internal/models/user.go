package models

// UserRole represents the roles carried in access tokens.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPERADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleTeacher    UserRole = "TEACHER"
	RoleStudent    UserRole = "STUDENT"
)

// IsAdministrative reports whether the role sees institution-wide data.
func (r UserRole) IsAdministrative() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}
