package users

import (
	"context"

	"codeberg.org/atelier/server/atelier/users"
)

// user operations the admin handlers need; satisfied by *users.Repository
type Store interface {
	FindByID(ctx context.Context, userID string) (*users.User, error)
	List(ctx context.Context, limit, offset int) ([]*users.User, error)
	UpdateRole(ctx context.Context, userID, role string) (*users.User, error)
}

// UpdateRoleRequest changes a user's permission class
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ListResponse wraps the user listing
type ListResponse struct {
	Users []*users.User `json:"users"`
}

// UserResponse wraps a single user
type UserResponse struct {
	User *users.User `json:"user"`
}

// MessageResponse for simple success messages
type MessageResponse struct {
	Message string `json:"message"`
}
