package usecase

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const unlockLimiterTTL = time.Hour

// UnlockLimiter holds a token bucket per organization bounding private-key unlock attempts.
// Each attempt costs a full PBKDF2 derivation, so the limiter is consulted before any KDF work.
type UnlockLimiter struct {
	limiters sync.Map // map[string]*unlockLimiterEntry
	rps      float64
	burst    int
}

type unlockLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

// NewUnlockLimiter creates a limiter allowing rps attempts per second per organization with the
// given burst. A non-positive rps disables limiting.
func NewUnlockLimiter(rps float64, burst int) *UnlockLimiter {
	if burst < 1 {
		burst = 1
	}
	return &UnlockLimiter{rps: rps, burst: burst}
}

// Allow reports whether an unlock attempt for orgID may proceed, consuming one token if so.
func (l *UnlockLimiter) Allow(orgID string) bool {
	if l == nil || l.rps <= 0 {
		return true
	}
	return l.getLimiter(orgID).Allow()
}

func (l *UnlockLimiter) getLimiter(orgID string) *rate.Limiter {
	now := time.Now()

	if val, ok := l.limiters.Load(orgID); ok {
		entry := val.(*unlockLimiterEntry)
		entry.mu.Lock()
		entry.lastAccess = now
		entry.mu.Unlock()
		return entry.limiter
	}

	l.pruneStale(now.Add(-unlockLimiterTTL))

	entry := &unlockLimiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(l.rps), l.burst),
		lastAccess: now,
	}
	actual, _ := l.limiters.LoadOrStore(orgID, entry)
	return actual.(*unlockLimiterEntry).limiter
}

// pruneStale drops limiters not used since threshold.
func (l *UnlockLimiter) pruneStale(threshold time.Time) {
	l.limiters.Range(func(key, value any) bool {
		entry := value.(*unlockLimiterEntry)
		entry.mu.Lock()
		stale := entry.lastAccess.Before(threshold)
		entry.mu.Unlock()

		if stale {
			l.limiters.Delete(key)
		}
		return true
	})
}
