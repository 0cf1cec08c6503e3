package auth

import (
	"codeberg.org/atelier/server/atelier/sessions"
	"codeberg.org/atelier/server/internal/auth"
	"codeberg.org/atelier/server/internal/config"
	"codeberg.org/atelier/server/internal/identity"
	"github.com/gin-gonic/gin"
)

// registers all authentication routes; rateLimiter guards the
// credential-accepting endpoints
func RegisterRoutes(
	router *gin.RouterGroup,
	svc Service,
	store sessions.Store,
	userStore UserStore,
	cfg *config.Config,
	rateLimiter gin.HandlerFunc,
) {
	authGroup := router.Group("/auth")

	if rateLimiter != nil {
		authGroup.Use(rateLimiter)
	}

	{
		authGroup.POST("/login", LoginHandler(svc, store, cfg))
		authGroup.POST("/register", RegisterHandler(svc, store, cfg))
		authGroup.POST("/logout", LogoutHandler(store, cfg))
		authGroup.POST("/firebase-auth", ExternalTokenHandler(identity.ProviderFirebase, svc, store, cfg))
		authGroup.POST("/supabase-auth", ExternalTokenHandler(identity.ProviderSupabase, svc, store, cfg))
		authGroup.GET("/google", BeginGoogleHandler())
		authGroup.GET("/google/callback", GoogleCallbackHandler(svc, store, cfg))
		authGroup.GET("/me", auth.SessionMiddleware(store), GetCurrentUserHandler(userStore))
		authGroup.PUT("/me", auth.SessionMiddleware(store), UpdateProfileHandler(userStore))
	}
}
