package domain

import "time"

// UserRole enumerates authorization roles.
type UserRole string

const (
	RoleAdmin         UserRole = "ADMIN"
	RolePropertyOwner UserRole = "PROPERTY_OWNER"
	RoleResident      UserRole = "RESIDENT"
	RoleContractor    UserRole = "CONTRACTOR"
)

// ValidRole reports whether the role is a known one.
func ValidRole(role UserRole) bool {
	switch role {
	case RoleAdmin, RolePropertyOwner, RoleResident, RoleContractor:
		return true
	}
	return false
}

// User is an authenticated account.
type User struct {
	ID           string
	Email        Email
	PasswordHash string
	FullName     string
	Role         UserRole
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
