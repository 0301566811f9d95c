package domain

import "time"

// Role is the closed set of authorization roles.
type Role string

const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleUser, RoleAdmin:
		return true
	}
	return false
}

// In reports whether r is a member of the allowed set.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	Active       bool
	Deleted      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TokenPair is returned once per login/refresh call and never stored.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
