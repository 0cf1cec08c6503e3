package auth

import (
	"context"
	"errors"

	"codeberg.org/atelier/server/atelier/sessions"
	"codeberg.org/atelier/server/atelier/users"
	apperrors "codeberg.org/atelier/server/internal/errors"
	"github.com/gin-gonic/gin"
)

// context keys set after successful session resolution
const (
	ContextUserID    = "user_id"
	ContextSessionID = "session_id"
)

// finder interface for the role check; satisfied by *users.Repository
type UserFinder interface {
	FindByID(ctx context.Context, userID string) (*users.User, error)
}

// resolves the session cookie and adds user info to the request context
func SessionMiddleware(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(sessions.CookieName)
		if err != nil || cookie == "" {
			apperrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		session, err := store.Get(c.Request.Context(), cookie)
		if errors.Is(err, sessions.ErrSessionExpired) {
			apperrors.SessionExpired(c)
			c.Abort()
			return
		}

		if err != nil {
			apperrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(ContextUserID, session.UserID)
		c.Set(ContextSessionID, session.ID)

		c.Next()
	}
}

// resolves the session cookie if present but doesn't require it
func OptionalSessionMiddleware(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(sessions.CookieName)
		if err == nil && cookie != "" {
			if session, err := store.Get(c.Request.Context(), cookie); err == nil {
				c.Set(ContextUserID, session.UserID)
				c.Set(ContextSessionID, session.ID)
			}
		}

		c.Next()
	}
}

// restricts the route to users holding one of the given roles; runs
// after SessionMiddleware
func RequireRole(finder UserFinder, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apperrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, err := finder.FindByID(c.Request.Context(), userID)
		if err != nil {
			apperrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		apperrors.Forbidden(c, "")
		c.Abort()
	}
}

// extracts user_id from context after SessionMiddleware
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(ContextUserID)
	if !exists {
		return "", false
	}

	return userID.(string), true
}

// extracts session_id from context after SessionMiddleware
func GetSessionID(c *gin.Context) (string, bool) {
	sessionID, exists := c.Get(ContextSessionID)
	if !exists {
		return "", false
	}

	return sessionID.(string), true
}
