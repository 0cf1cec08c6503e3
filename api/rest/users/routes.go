package users

import (
	"codeberg.org/atelier/server/atelier/sessions"
	domain "codeberg.org/atelier/server/atelier/users"
	"codeberg.org/atelier/server/internal/auth"
	"github.com/gin-gonic/gin"
)

// registers the admin user-management routes
func RegisterRoutes(router *gin.RouterGroup, repo *domain.Repository, sessionStore sessions.Store) {
	usersGroup := router.Group("/users")
	usersGroup.Use(auth.SessionMiddleware(sessionStore))
	usersGroup.Use(auth.RequireRole(repo, domain.RoleAdmin))

	{
		usersGroup.GET("", ListHandler(repo))
		usersGroup.PUT("/:id/role", UpdateRoleHandler(repo))
		usersGroup.DELETE("/:id/sessions", RevokeSessionsHandler(repo, sessionStore))
	}
}
