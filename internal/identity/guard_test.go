package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginGuard_AllowsBurstThenBlocks(t *testing.T) {
	guard := NewLoginGuard(10, 3)

	assert.True(t, guard.Allow("ada"))
	assert.True(t, guard.Allow("ada"))
	assert.True(t, guard.Allow("ada"))
	assert.False(t, guard.Allow("ada"))
}

func TestLoginGuard_AccountsAreIndependent(t *testing.T) {
	guard := NewLoginGuard(10, 1)

	assert.True(t, guard.Allow("ada"))
	assert.False(t, guard.Allow("ada"))
	assert.True(t, guard.Allow("grace"))
}

func TestLoginGuard_ResetClearsThrottle(t *testing.T) {
	guard := NewLoginGuard(10, 1)

	assert.True(t, guard.Allow("ada"))
	assert.False(t, guard.Allow("ada"))

	guard.Reset("ada")

	assert.True(t, guard.Allow("ada"))
}
