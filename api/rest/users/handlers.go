package users

import (
	"errors"
	"net/http"
	"strconv"

	"codeberg.org/atelier/server/atelier/sessions"
	domain "codeberg.org/atelier/server/atelier/users"
	apperrors "codeberg.org/atelier/server/internal/errors"
	"github.com/gin-gonic/gin"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// ListHandler godoc
// @Summary List users
// @Description List canonical users; admin only
// @Tags users
// @Produce json
// @Success 200 {object} ListResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /api/users [get]
func ListHandler(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
		if err != nil || limit < 1 || limit > maxListLimit {
			limit = defaultListLimit
		}

		offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if err != nil || offset < 0 {
			offset = 0
		}

		list, err := store.List(c.Request.Context(), limit, offset)
		if err != nil {
			apperrors.InternalError(c, "failed to list users", err)
			return
		}

		c.JSON(http.StatusOK, ListResponse{Users: list})
	}
}

// UpdateRoleHandler godoc
// @Summary Change a user's role
// @Description Assign one of the fixed permission classes; admin only
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/users/{id}/role [put]
func UpdateRoleHandler(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("id")
		if !apperrors.IsValidUUID(userID) {
			apperrors.NotFound(c, "user")
			return
		}

		var req UpdateRoleRequest

		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.ValidationError(c, err)
			return
		}

		if !domain.ValidRole(req.Role) {
			apperrors.BadRequest(c, "unknown role", nil)
			return
		}

		user, err := store.UpdateRole(c.Request.Context(), userID, req.Role)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				apperrors.NotFound(c, "user")
				return
			}

			apperrors.InternalError(c, "failed to update role", err)
			return
		}

		c.JSON(http.StatusOK, UserResponse{User: user})
	}
}

// RevokeSessionsHandler godoc
// @Summary Revoke a user's sessions
// @Description Destroy every active session for the user; admin only
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/users/{id}/sessions [delete]
func RevokeSessionsHandler(store Store, sessionStore sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("id")
		if !apperrors.IsValidUUID(userID) {
			apperrors.NotFound(c, "user")
			return
		}

		if _, err := store.FindByID(c.Request.Context(), userID); err != nil {
			apperrors.NotFound(c, "user")
			return
		}

		if err := sessionStore.DeleteForUser(c.Request.Context(), userID); err != nil {
			apperrors.InternalError(c, "failed to revoke sessions", err)
			return
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "sessions revoked"})
	}
}
