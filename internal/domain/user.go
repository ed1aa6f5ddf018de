package domain

import "time"

// Role enumerates account types.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// ValidRole reports whether the value is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleCitizen, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// User is the domain model for every account: citizens, department staff
// and administrators share one table, differentiated by Role.
// Exactly one of Ward (citizens) and Department (staff) is set.
type User struct {
	ID            string
	FullName      string
	Email         string
	PasswordHash  string
	Role          Role
	Ward          *string
	Department    *Category
	ResolvedCount int
	CreatedAt     time.Time
}

// UserCounts is the role breakdown shown on the admin dashboard.
type UserCounts struct {
	Total    int
	Staff    int
	Citizens int
}
