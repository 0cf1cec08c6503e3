package main

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/atelier/server/atelier/sessions"
	"codeberg.org/atelier/server/atelier/users"
	"codeberg.org/atelier/server/internal/config"
	"codeberg.org/atelier/server/internal/identity"
	"codeberg.org/atelier/server/internal/logger"
	"codeberg.org/atelier/server/migrations"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	if err := migrations.Run(cfg.DatabaseURL); err != nil {
		return nil, err
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// keep the pool small for hosted pooler compatibility
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	// PgBouncer in transaction mode doesn't support prepared statements
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sessionStore, err := sessions.NewRedisStore(cfg.RedisURL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	userRepo := users.NewRepository(db)

	registry := identity.NewRegistry(configuredVerifiers(cfg)...)
	bridge := identity.NewBridge(userRepo, registry)

	logger.Info("identity providers configured", "providers", registry.Providers())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	server := &Server{
		db:           db,
		config:       cfg,
		userRepo:     userRepo,
		sessionStore: sessionStore,
		bridge:       bridge,
		router:       router,
	}

	RegisterRoutes(router, server)

	return server, nil
}

// builds the verifier list from the configured provider settings
func configuredVerifiers(cfg *config.Config) []identity.Verifier {
	var verifiers []identity.Verifier

	if cfg.SupabaseJWTSecret != "" {
		verifiers = append(verifiers, identity.NewSupabaseVerifier(cfg.SupabaseJWTSecret))
	}

	if cfg.FirebaseAPIKey != "" {
		verifiers = append(verifiers, identity.NewFirebaseVerifier(cfg.FirebaseAPIKey))
	}

	return verifiers
}
