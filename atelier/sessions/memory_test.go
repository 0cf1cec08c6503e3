package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CreateAndGet(t *testing.T) {
	store := NewMemoryStore()

	session, err := store.Create(context.Background(), "user-1", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
	assert.True(t, session.ExpiresAt.After(session.CreatedAt))

	got, err := store.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, "user-1", got.UserID)
}

func TestMemoryStore_GetUnknown(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "no-such-session")

	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStore_GetExpired(t *testing.T) {
	store := NewMemoryStore()

	session, err := store.Create(context.Background(), "user-1", -time.Second)
	require.NoError(t, err)

	_, err = store.Get(context.Background(), session.ID)
	assert.ErrorIs(t, err, ErrSessionExpired)

	// the expired session is gone afterwards
	_, err = store.Get(context.Background(), session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStore_DeleteIsIdempotent(t *testing.T) {
	store := NewMemoryStore()

	session, err := store.Create(context.Background(), "user-1", time.Hour)
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), session.ID))
	require.NoError(t, store.Delete(context.Background(), session.ID))

	_, err = store.Get(context.Background(), session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStore_DeleteForUser(t *testing.T) {
	store := NewMemoryStore()

	first, err := store.Create(context.Background(), "user-1", time.Hour)
	require.NoError(t, err)
	second, err := store.Create(context.Background(), "user-1", time.Hour)
	require.NoError(t, err)
	other, err := store.Create(context.Background(), "user-2", time.Hour)
	require.NoError(t, err)

	require.NoError(t, store.DeleteForUser(context.Background(), "user-1"))

	_, err = store.Get(context.Background(), first.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get(context.Background(), second.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// other users keep their sessions
	_, err = store.Get(context.Background(), other.ID)
	assert.NoError(t, err)
}

func TestGenerateSessionID(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		id, err := GenerateSessionID()
		require.NoError(t, err)
		assert.Len(t, id, 64)
		assert.False(t, seen[id], "session IDs must not repeat")
		seen[id] = true
	}
}
