package identity

import (
	"context"

	"codeberg.org/atelier/server/atelier/users"
)

// provider names; each maps to one credential front-end
const (
	ProviderPassword = "password" // first-party username/password
	ProviderFirebase = "firebase" // phone OTP and Google sign-in via Firebase
	ProviderSupabase = "supabase" // email/OAuth via Supabase
	ProviderGoogle   = "google"   // direct Google browser OAuth
)

// Identity is a transient identity assertion produced by a verifier.
// It carries facts only; reconciliation decisions happen in the bridge.
type Identity struct {
	Provider      string
	Subject       string // provider-scoped unique user identifier
	Email         string
	EmailVerified bool
	DisplayName   string
	AvatarURL     string
}

// Verifier validates a provider-specific token and returns the asserted
// identity. Implementations must not touch user storage.
type Verifier interface {
	Name() string
	Verify(ctx context.Context, token string) (*Identity, error)
}

// store interface for the user lookups the bridge performs; satisfied
// by *users.Repository
type Store interface {
	Create(ctx context.Context, req *users.CreateUserRequest) (*users.User, error)
	FindByID(ctx context.Context, userID string) (*users.User, error)
	FindByUsername(ctx context.Context, username string) (*users.User, error)
	FindByEmail(ctx context.Context, email string) (*users.User, error)
	FindByProviderSubject(ctx context.Context, provider, subject string) (*users.User, error)

	// LinkIdentity reports whether the link was inserted; false means
	// the (provider, subject) pair was already claimed
	LinkIdentity(ctx context.Context, userID, provider, subject string) (bool, error)
}

// contains data for first-party registration
type RegisterRequest struct {
	Username    string
	Email       string
	DisplayName string
	Password    string
}
