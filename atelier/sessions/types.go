package sessions

import (
	"context"
	"time"
)

// Session is the server-issued credential bound to one user, carried
// via an HTTP-only cookie.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// store interface for session persistence
type Store interface {
	Create(ctx context.Context, userID string, ttl time.Duration) (*Session, error)
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Delete is idempotent; removing an absent session is not an error
	Delete(ctx context.Context, sessionID string) error

	// DeleteForUser revokes every session belonging to one user
	DeleteForUser(ctx context.Context, userID string) error
}

// reports whether the session's absolute expiry has passed
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
