package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"intersect_api/internal/models"
)

// RateLimiter enforces a rolling request window per client address.
// Buckets live only for the process lifetime.
type RateLimiter struct {
	requests  int
	window    time.Duration
	mu        sync.Mutex
	clients   map[string][]time.Time
	lastSweep time.Time
}

// NewRateLimiter creates a limiter allowing requests per window for
// each client.
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests:  requests,
		window:    window,
		clients:   make(map[string][]time.Time),
		lastSweep: time.Now(),
	}
}

// Allow records a request for the client and reports whether it fits
// inside the rolling window.
func (l *RateLimiter) Allow(clientIP string) bool {
	now := time.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	// Once per window, drop buckets whose clients have gone quiet so
	// one-off addresses don't accumulate for the process lifetime.
	if now.Sub(l.lastSweep) >= l.window {
		for ip, ts := range l.clients {
			if len(ts) == 0 || !ts[len(ts)-1].After(cutoff) {
				delete(l.clients, ip)
			}
		}
		l.lastSweep = now
	}

	timestamps := l.clients[clientIP]

	// Drop requests that have left the window.
	kept := timestamps[:0]
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.requests {
		l.clients[clientIP] = kept
		return false
	}

	l.clients[clientIP] = append(kept, now)
	return true
}

// Middleware rejects over-limit clients with a 429.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error: fmt.Sprintf("rate limit exceeded: maximum %d requests per %s", l.requests, l.window),
			})
			return
		}
		c.Next()
	}
}
