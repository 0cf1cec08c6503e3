package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"codeberg.org/atelier/server/internal/logger"
	"github.com/redis/go-redis/v9"
)

const (
	keySession      = "session:%s"       // session ID -> session JSON
	keyUserSessions = "user_sessions:%s" // user ID -> set of session IDs
)

// Redis-backed session store; expiry is enforced by key TTL so no
// cleanup loop is needed
type RedisStore struct {
	client *redis.Client
}

// creates a new Redis session store and verifies the connection
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("connected to redis session store")

	return &RedisStore{client: client}, nil
}

// closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// creates and persists a new session for the user
func (s *RedisStore) Create(ctx context.Context, userID string, ttl time.Duration) (*Session, error) {
	sessionID, err := GenerateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	now := time.Now()
	session := &Session{
		ID:        sessionID,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, fmt.Sprintf(keySession, sessionID), data, ttl)
	pipe.SAdd(ctx, fmt.Sprintf(keyUserSessions, userID), sessionID)
	pipe.Expire(ctx, fmt.Sprintf(keyUserSessions, userID), ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	return session, nil
}

// retrieves a session by ID
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	val, err := s.client.Get(ctx, fmt.Sprintf(keySession, sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}

	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	// TTL normally removes the key first; the explicit check covers
	// clock skew between Redis and the server
	if session.Expired(time.Now()) {
		s.client.Del(ctx, fmt.Sprintf(keySession, sessionID)) //nolint:errcheck,gosec // best-effort cleanup
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// removes a session; idempotent
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	val, err := s.client.Get(ctx, fmt.Sprintf(keySession, sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}

	if err != nil {
		return err
	}

	var session Session
	if err := json.Unmarshal([]byte(val), &session); err == nil {
		s.client.SRem(ctx, fmt.Sprintf(keyUserSessions, session.UserID), sessionID) //nolint:errcheck,gosec // index cleanup is best-effort
	}

	return s.client.Del(ctx, fmt.Sprintf(keySession, sessionID)).Err()
}

// revokes every session belonging to the user
func (s *RedisStore) DeleteForUser(ctx context.Context, userID string) error {
	indexKey := fmt.Sprintf(keyUserSessions, userID)

	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	for _, id := range ids {
		pipe.Del(ctx, fmt.Sprintf(keySession, id))
	}
	pipe.Del(ctx, indexKey)

	_, err = pipe.Exec(ctx)
	return err
}
