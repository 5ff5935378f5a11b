package utils

import (
	"sync"
	"time"
)

// RateLimiter implements a token bucket rate limiter. Used to throttle
// per-connection websocket traffic where the Redis limiter would be
// overkill.
type RateLimiter struct {
	rate       int
	period     time.Duration
	tokens     float64
	maxTokens  float64
	lastRefill time.Time
	mutex      sync.Mutex
}

func NewRateLimiter(rate int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		rate:       rate,
		period:     period,
		tokens:     float64(rate),
		maxTokens:  float64(rate),
		lastRefill: time.Now(),
	}
}

// Allow checks if a request is allowed under the rate limit
func (rl *RateLimiter) Allow() bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	elapsed := now.Sub(rl.lastRefill)
	rl.lastRefill = now

	rl.tokens += elapsed.Seconds() * float64(rl.rate) / rl.period.Seconds()
	if rl.tokens > rl.maxTokens {
		rl.tokens = rl.maxTokens
	}

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}
