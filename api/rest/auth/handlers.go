package auth

import (
	"errors"
	"net/http"

	"codeberg.org/atelier/server/atelier/sessions"
	"codeberg.org/atelier/server/internal/auth"
	"codeberg.org/atelier/server/internal/config"
	apperrors "codeberg.org/atelier/server/internal/errors"
	"codeberg.org/atelier/server/internal/identity"
	"codeberg.org/atelier/server/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"
)

// LoginHandler godoc
// @Summary Password sign-in
// @Description Authenticate with username and password, issues a session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /api/auth/login [post]
func LoginHandler(svc Service, store sessions.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest

		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.ValidationError(c, err)
			return
		}

		user, err := svc.AuthenticateByPassword(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, identity.ErrTooManyAttempts):
				apperrors.TooManyRequests(c, "too many login attempts, try again later")
			case errors.Is(err, identity.ErrInvalidCredentials):
				apperrors.InvalidCredentials(c)
			default:
				apperrors.InternalError(c, "login failed", err)
			}
			return
		}

		issueSession(c, store, cfg, user.ID, UserResponse{User: user})
	}
}

// RegisterHandler godoc
// @Summary Register
// @Description Create a new account and issue a session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /api/auth/register [post]
func RegisterHandler(svc Service, store sessions.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest

		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.ValidationError(c, err)
			return
		}

		user, err := svc.Register(c.Request.Context(), &identity.RegisterRequest{
			Username:    req.Username,
			Email:       req.Email,
			DisplayName: req.DisplayName,
			Password:    req.Password,
		})

		if err != nil {
			switch {
			case errors.Is(err, identity.ErrDuplicateUsername):
				apperrors.Conflict(c, apperrors.CodeDuplicateUsername, "username already taken")
			case errors.Is(err, identity.ErrDuplicateEmail):
				apperrors.Conflict(c, apperrors.CodeDuplicateEmail, "email already registered")
			default:
				apperrors.InternalError(c, "registration failed", err)
			}
			return
		}

		issueSession(c, store, cfg, user.ID, UserResponse{User: user})
	}
}

// ExternalTokenHandler godoc
// @Summary External provider sign-in
// @Description Verify a provider token (firebase, supabase) and reconcile it to a canonical user
// @Tags auth
// @Accept json
// @Produce json
// @Param provider path string true "Identity provider" Enums(firebase, supabase)
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/auth/{provider}-auth [post]
func ExternalTokenHandler(provider string, svc Service, store sessions.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ExternalTokenRequest

		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.ValidationError(c, err)
			return
		}

		user, err := svc.AuthenticateByExternalToken(c.Request.Context(), provider, req.Token)
		if err != nil {
			switch {
			case errors.Is(err, identity.ErrUnknownProvider):
				apperrors.BadRequest(c, "provider not configured", nil)
			case errors.Is(err, identity.ErrProviderVerification):
				apperrors.ProviderVerificationFailed(c, err)
			default:
				apperrors.InternalError(c, "authentication failed", err)
			}
			return
		}

		issueSession(c, store, cfg, user.ID, UserResponse{User: user})
	}
}

// BeginGoogleHandler godoc
// @Summary Start Google OAuth
// @Description Begin the Google browser OAuth flow
// @Tags auth
// @Success 302 {string} string "Redirect to Google"
// @Router /api/auth/google [get]
func BeginGoogleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// set provider in query for gothic
		q := c.Request.URL.Query()
		q.Add("provider", identity.ProviderGoogle)
		c.Request.URL.RawQuery = q.Encode()

		gothic.BeginAuthHandler(c.Writer, c.Request)
	}
}

// GoogleCallbackHandler godoc
// @Summary Google OAuth callback
// @Description Complete the Google flow and reconcile the identity
// @Tags auth
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/auth/google/callback [get]
func GoogleCallbackHandler(svc Service, store sessions.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Request.URL.Query()
		q.Add("provider", identity.ProviderGoogle)
		c.Request.URL.RawQuery = q.Encode()

		gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
		if err != nil {
			apperrors.ProviderVerificationFailed(c, err)
			return
		}

		user, err := svc.Reconcile(c.Request.Context(), &identity.Identity{
			Provider: identity.ProviderGoogle,
			Subject:  gothUser.UserID,
			Email:    gothUser.Email,
			// google only returns addresses it has verified
			EmailVerified: gothUser.Email != "",
			DisplayName:   gothUser.Name,
			AvatarURL:     gothUser.AvatarURL,
		})

		if err != nil {
			apperrors.InternalError(c, "failed to reconcile user", err)
			return
		}

		issueSession(c, store, cfg, user.ID, UserResponse{User: user})
	}
}

// LogoutHandler godoc
// @Summary Logout
// @Description Invalidate the session; calling twice is not an error
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /api/auth/logout [post]
func LogoutHandler(store sessions.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cookie, err := c.Cookie(sessions.CookieName); err == nil && cookie != "" {
			if err := store.Delete(c.Request.Context(), cookie); err != nil {
				logger.ErrorErr(err, "failed to delete session on logout")
			}
		}

		sessions.ClearCookie(c.Writer, cfg.IsProduction())
		c.JSON(http.StatusOK, MessageResponse{Message: "logged out successfully"})
	}
}

// GetCurrentUserHandler godoc
// @Summary Get current user
// @Description Get the authenticated user's profile
// @Tags auth
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/auth/me [get]
func GetCurrentUserHandler(userStore UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			apperrors.Unauthorized(c, "")
			return
		}

		user, err := userStore.FindByID(c.Request.Context(), userID)
		if err != nil {
			apperrors.NotFound(c, "user")
			return
		}

		c.JSON(http.StatusOK, UserResponse{User: user})
	}
}

// UpdateProfileHandler godoc
// @Summary Update profile
// @Description Update the authenticated user's display name and avatar
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/auth/me [put]
func UpdateProfileHandler(userStore UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			apperrors.Unauthorized(c, "")
			return
		}

		var req UpdateProfileRequest

		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.ValidationError(c, err)
			return
		}

		user, err := userStore.UpdateProfile(c.Request.Context(), userID, req.DisplayName, req.AvatarURL)
		if err != nil {
			apperrors.InternalError(c, "failed to update profile", err)
			return
		}

		c.JSON(http.StatusOK, UserResponse{User: user})
	}
}

// creates a session, sets the cookie and writes the success payload;
// a failed session write issues no cookie
func issueSession(c *gin.Context, store sessions.Store, cfg *config.Config, userID string, payload UserResponse) {
	session, err := store.Create(c.Request.Context(), userID, cfg.SessionTTL)
	if err != nil {
		apperrors.InternalError(c, "failed to create session", err)
		return
	}

	sessions.SetCookie(c.Writer, session, cfg.IsProduction())
	c.JSON(http.StatusOK, payload)
}
