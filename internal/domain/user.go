package domain

import "time"

// Role is the closed set of user roles.
type Role string

const (
	RoleUser   Role = "USER"
	RoleBroker Role = "BROKER"
)

// IsValid checks whether the role is one of the defined constants.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleBroker:
		return true
	}
	return false
}

// User is an account in the directory. PasswordHash holds a bcrypt hash,
// never the raw credential.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// IsBroker reports whether the user may post accommodations.
func (u *User) IsBroker() bool {
	return u.Role == RoleBroker
}
