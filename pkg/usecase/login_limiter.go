package usecase

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// loginLimiterIdle drops limiters of clients that stayed quiet this long.
	loginLimiterIdle = 10 * time.Minute
	// loginLimiterSweepSize triggers a sweep of idle limiters.
	loginLimiterSweepSize = 1024
)

type cachedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func (c *cachedLimiter) isIdle(now time.Time) bool {
	return now.Sub(c.lastSeen) > loginLimiterIdle
}

// loginLimiter keeps one token bucket per client IP.
type loginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*cachedLimiter
	rate     rate.Limit
	burst    int
}

func newLoginLimiter(rps float64, burst int) *loginLimiter {
	if burst < 1 {
		burst = 1
	}
	return &loginLimiter{
		limiters: make(map[string]*cachedLimiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

// allow consumes one token of key's bucket.
func (l *loginLimiter) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, exists := l.limiters[key]
	if !exists || entry.isIdle(now) {
		if len(l.limiters) >= loginLimiterSweepSize {
			l.sweep(now)
		}
		entry = &cachedLimiter{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

func (l *loginLimiter) sweep(now time.Time) {
	for key, entry := range l.limiters {
		if entry.isIdle(now) {
			delete(l.limiters, key)
		}
	}
}

func (l *loginLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
