package identity

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// caps the number of tracked accounts; beyond this the oldest idle
// entries are pruned
const guardMaxEntries = 10000

// throttles password attempts per account to slow credential stuffing
type LoginGuard struct {
	mu       sync.Mutex
	limiters map[string]*guardEntry
	limit    rate.Limit
	burst    int
}

type guardEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// creates a login guard allowing `burst` immediate attempts per account
// and a sustained rate of `perMinute` attempts
func NewLoginGuard(perMinute float64, burst int) *LoginGuard {
	return &LoginGuard{
		limiters: make(map[string]*guardEntry),
		limit:    rate.Limit(perMinute / 60.0),
		burst:    burst,
	}
}

// reports whether another attempt is allowed for the account
func (g *LoginGuard) Allow(account string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	entry, exists := g.limiters[account]
	if !exists {
		if len(g.limiters) >= guardMaxEntries {
			g.pruneLocked()
		}

		entry = &guardEntry{limiter: rate.NewLimiter(g.limit, g.burst)}
		g.limiters[account] = entry
	}

	entry.lastSeen = time.Now()

	return entry.limiter.Allow()
}

// clears the throttle state after a successful login
func (g *LoginGuard) Reset(account string) {
	g.mu.Lock()
	delete(g.limiters, account)
	g.mu.Unlock()
}

// drops the least recently seen half of the entries; caller holds the lock
func (g *LoginGuard) pruneLocked() {
	cutoff := time.Now().Add(-10 * time.Minute)

	for account, entry := range g.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(g.limiters, account)
		}
	}

	// all entries recent: drop arbitrary ones to stay bounded
	for account := range g.limiters {
		if len(g.limiters) < guardMaxEntries/2 {
			break
		}
		delete(g.limiters, account)
	}
}
