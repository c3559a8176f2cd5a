package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a fixed-window per-IP request limiter. Windows are small
// enough that the map is pruned by rotation instead of a cleanup goroutine.
type RateLimiter struct {
	mu          sync.Mutex
	counts      map[string]int
	limit       int
	window      time.Duration
	windowStart time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		counts:      make(map[string]int),
		limit:       limit,
		window:      window,
		windowStart: time.Now(),
	}
}

// Allow checks if a request from the given IP is allowed
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.windowStart) >= rl.window {
		rl.counts = make(map[string]int)
		rl.windowStart = now
	}

	if rl.counts[ip] >= rl.limit {
		return false
	}
	rl.counts[ip]++
	return true
}

// RateLimit middleware limits requests per IP
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(limit, window)

	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
