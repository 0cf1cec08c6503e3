package users

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// permission classes; every user holds exactly one
const (
	RoleAdmin    = "admin"
	RoleDesigner = "designer"
	RoleClient   = "client"
)

// role assigned to users created through external provider reconciliation
const DefaultRole = RoleClient

// handles user database operations
type Repository struct {
	db *pgxpool.Pool
}

// User is the canonical application user record, independent of any
// identity provider.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	AvatarURL    string    `json:"avatar_url"`
	PasswordHash *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// contains data for creating a new user row
type CreateUserRequest struct {
	Username     string
	DisplayName  string
	Email        string
	Role         string
	AvatarURL    string
	PasswordHash *string
}

// reports whether role is one of the fixed permission classes
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDesigner, RoleClient:
		return true
	}

	return false
}
