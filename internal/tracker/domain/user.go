package domain

import "time"

// Role is the account-wide role assigned to a user.
type Role string

const (
	RoleOwner Role = "OWNER"
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleUser:
		return true
	}
	return false
}

// IsAdmin reports whether the role carries administrative capability.
func (r Role) IsAdmin() bool {
	return r == RoleOwner || r == RoleAdmin
}

type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"` // unique, compared case-insensitively
	Name         string    `db:"name"`
	PasswordHash string    `db:"password_hash"` // argon2id encoded
	Role         Role      `db:"role"`
	IsPaused     bool      `db:"is_paused"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
