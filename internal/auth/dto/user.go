package dto

import (
	"time"

	"github.com/AnthoniusHendriyanto/blog-service/internal/auth/domain"
)

type UserOutput struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserOutput maps a domain user to its API shape, never exposing the
// password hash.
func NewUserOutput(u *domain.User) UserOutput {
	return UserOutput{
		ID:        u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type UpdateRoleInput struct {
	Role string `json:"role"`
}

type UpdateActiveInput struct {
	Active bool `json:"active"`
}
