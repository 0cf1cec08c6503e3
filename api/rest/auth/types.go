package auth

import (
	"context"

	"codeberg.org/atelier/server/atelier/users"
	"codeberg.org/atelier/server/internal/identity"
)

// Service is the identity bridge surface the handlers need; satisfied
// by *identity.Bridge
type Service interface {
	AuthenticateByPassword(ctx context.Context, username, password string) (*users.User, error)
	AuthenticateByExternalToken(ctx context.Context, provider, token string) (*users.User, error)
	Register(ctx context.Context, req *identity.RegisterRequest) (*users.User, error)
	Reconcile(ctx context.Context, ident *identity.Identity) (*users.User, error)
}

// user lookups the handlers need; satisfied by *users.Repository
type UserStore interface {
	FindByID(ctx context.Context, userID string) (*users.User, error)
	UpdateProfile(ctx context.Context, userID, displayName, avatarURL string) (*users.User, error)
}

// LoginRequest for username/password sign-in
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=200"`
}

// RegisterRequest for first-party registration
type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=100"`
	Email       string `json:"email" binding:"required,email,max=255"`
	DisplayName string `json:"display_name" binding:"max=100"`
	Password    string `json:"password" binding:"required,min=8,max=200"`
}

// ExternalTokenRequest carries a provider-issued verification token
type ExternalTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// UpdateProfileRequest for updating user profile
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"required,max=100"`
	AvatarURL   string `json:"avatar_url" binding:"max=500"`
}

// UserResponse wraps user data
type UserResponse struct {
	User *users.User `json:"user"`
}

// MessageResponse for simple success messages
type MessageResponse struct {
	Message string `json:"message"`
}
