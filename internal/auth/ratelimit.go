package auth

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// RateLimiter counts failed login attempts per client origin inside a TTL
// window and locks the origin out once the threshold is reached. Failure
// counts expire on their own; a successful login clears the origin.
type RateLimiter struct {
	failures  *gocache.Cache
	threshold int
}

// NewRateLimiter constructs a limiter allowing threshold-1 failures per
// origin within the window.
func NewRateLimiter(threshold int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		failures:  gocache.New(window, window),
		threshold: threshold,
	}
}

// Allow reports whether the origin may attempt a login.
func (l *RateLimiter) Allow(origin string) bool {
	count, found := l.failures.Get(origin)
	if !found {
		return true
	}
	return count.(int) < l.threshold
}

// RecordFailure bumps the origin's failure count, starting the window on
// the first failure.
func (l *RateLimiter) RecordFailure(origin string) {
	if _, err := l.failures.IncrementInt(origin, 1); err != nil {
		l.failures.SetDefault(origin, 1)
	}
}

// Reset clears the origin's failure count after a successful login.
func (l *RateLimiter) Reset(origin string) {
	l.failures.Delete(origin)
}
