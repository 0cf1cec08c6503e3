package main

import (
	"codeberg.org/atelier/server/api/rest/auth"
	"codeberg.org/atelier/server/api/rest/health"
	"codeberg.org/atelier/server/api/rest/users"
	"codeberg.org/atelier/server/internal/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	limiter "github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
)

// per-IP budget for the credential-accepting endpoints
const authRateLimit = "30-M"

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{server.config.BaseURL, "http://localhost:5173"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	router.GET("/health", health.Handler)

	api := router.Group("/api")

	{
		api.GET("/ping", health.PingHandler)

		auth.RegisterRoutes(
			api,
			server.bridge,
			server.sessionStore,
			server.userRepo,
			server.config,
			authRateLimiter(),
		)
		users.RegisterRoutes(api, server.userRepo, server.sessionStore)
	}
}

// builds the per-IP rate limit middleware for the auth endpoints
func authRateLimiter() gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(authRateLimit)
	if err != nil {
		logger.Fatal("invalid auth rate limit", "error", err)
	}

	return mgin.NewMiddleware(limiter.New(memorystore.NewStore(), rate))
}
