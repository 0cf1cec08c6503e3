package main

import (
	"codeberg.org/atelier/server/atelier/sessions"
	"codeberg.org/atelier/server/atelier/users"
	"codeberg.org/atelier/server/internal/config"
	"codeberg.org/atelier/server/internal/identity"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// holds all dependencies and state for the API server
type Server struct {
	db           *pgxpool.Pool
	config       *config.Config
	userRepo     *users.Repository
	sessionStore *sessions.RedisStore
	bridge       *identity.Bridge
	router       *gin.Engine
}
