package web

import (
	"cmp"
	"log/slog"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http.request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// throttle admits a fixed number of submissions per visitor in each window.
type throttle struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	visitors  map[string]*quota
	lastSweep time.Time
}

type quota struct {
	used  int
	reset time.Time
}

func newThrottle(limit int, window time.Duration) *throttle {
	return &throttle{
		limit:    max(limit, 1),
		window:   cmp.Or(window, time.Minute),
		now:      time.Now,
		visitors: make(map[string]*quota),
	}
}

// take spends one submission for visitor. It returns zero when admitted,
// otherwise how long until the visitor's window resets.
func (t *throttle) take(visitor string) time.Duration {
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()

	if now.Sub(t.lastSweep) >= t.window {
		for k, q := range t.visitors {
			if !now.Before(q.reset) {
				delete(t.visitors, k)
			}
		}
		t.lastSweep = now
	}

	q, ok := t.visitors[visitor]
	if !ok || !now.Before(q.reset) {
		q = &quota{reset: now.Add(t.window)}
		t.visitors[visitor] = q
	}
	if q.used >= t.limit {
		return q.reset.Sub(now)
	}
	q.used++
	return 0
}

// throttled rejects a visitor over t's quota with Retry-After and deny.
// Visitors are keyed by the analytics hash when available so raw addresses
// are not held in memory.
func (s *Server) throttled(t *throttle, deny gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		visitor := c.ClientIP()
		if s.Analytics != nil {
			visitor = s.Analytics.HashIP(visitor)
		}
		if wait := t.take(visitor); wait > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			deny(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
