package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atelier/backend/internal/interfaces/http/dto"
)

// RateLimiter tracks per-client request counts over a fixed window.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	window  time.Duration
	now     func() time.Time
}

type window struct {
	count   int
	startAt time.Time
}

// NewRateLimiter creates a limiter that allows limit requests per key in
// each window. Stale entries are swept lazily on access, so no background
// goroutine is needed.
func NewRateLimiter(limit int, windowSize time.Duration) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		window:  windowSize,
		now:     time.Now,
	}
}

// Allow reports whether the request identified by key may proceed, and
// counts it against the current window when it may.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweepLocked(now)

	w, ok := rl.windows[key]
	if !ok || now.Sub(w.startAt) >= rl.window {
		rl.windows[key] = &window{count: 1, startAt: now}
		return true
	}
	if w.count >= rl.limit {
		return false
	}
	w.count++
	return true
}

// Remaining returns how many requests the key has left in its current
// window without consuming one.
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok || rl.now().Sub(w.startAt) >= rl.window {
		return rl.limit
	}
	if remaining := rl.limit - w.count; remaining > 0 {
		return remaining
	}
	return 0
}

// sweepLocked drops windows that expired before the previous full window,
// keeping the map bounded by the set of recently active clients.
func (rl *RateLimiter) sweepLocked(now time.Time) {
	cutoff := now.Add(-2 * rl.window)
	for key, w := range rl.windows {
		if w.startAt.Before(cutoff) {
			delete(rl.windows, key)
		}
	}
}

// RateLimit returns a middleware that limits requests per client IP and
// answers 429 once the window is exhausted.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		allowed := limiter.Allow(key)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))

		if !allowed {
			c.JSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited,
				"Too many requests, slow down",
				requestIDFrom(c),
			))
			c.Abort()
			return
		}
		c.Next()
	}
}
