package user

import (
	"time"

	userDatamodel "github.com/frahmantamala/ngo-donations/internal/core/datamodel/user"
)

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// AdminUser is an account that can sign in to the dashboard.
type AdminUser struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func ToDataModel(u *AdminUser) *userDatamodel.AdminUser {
	return &userDatamodel.AdminUser{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		IsActive:     u.IsActive,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
	}
}

func FromDataModel(u *userDatamodel.AdminUser) *AdminUser {
	return &AdminUser{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		IsActive:     u.IsActive,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
	}
}
