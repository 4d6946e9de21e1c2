package domain

import "time"

// Role restricts an account to one of the recognised administrative tiers.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
)

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleManager:
		return true
	}
	return false
}

// Account is one administrative user. PasswordHash always holds a PHC-encoded
// Argon2id hash, never the plaintext.
type Account struct {
	ID           int64
	Username     string // globally unique
	Email        string // globally unique
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role // defaults to RoleAdmin at the schema level
	Active       bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
