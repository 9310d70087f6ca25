package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllow(t *testing.T) {
	l := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("1.2.3.4"), "request %d should be allowed", i+1)
	}
	assert.False(t, l.Allow("1.2.3.4"), "request over the limit must be rejected")

	// Other clients have their own bucket.
	assert.True(t, l.Allow("5.6.7.8"))
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	l := NewRateLimiter(2, 100*time.Millisecond)

	assert.True(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("1.2.3.4"))
	assert.False(t, l.Allow("1.2.3.4"))

	time.Sleep(150 * time.Millisecond)
	assert.True(t, l.Allow("1.2.3.4"), "bucket must reset once the window elapses")
}

func TestRateLimiterSweepsQuietClients(t *testing.T) {
	l := NewRateLimiter(5, 50*time.Millisecond)

	l.Allow("1.2.3.4")
	l.Allow("5.6.7.8")

	time.Sleep(60 * time.Millisecond)

	// The next request triggers the sweep; the quiet buckets go away.
	l.Allow("9.9.9.9")

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.clients, "1.2.3.4")
	assert.NotContains(t, l.clients, "5.6.7.8")
	assert.Contains(t, l.clients, "9.9.9.9")
}

func TestRateLimiterMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := NewRateLimiter(2, time.Minute)

	r := gin.New()
	r.Use(l.Middleware())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
