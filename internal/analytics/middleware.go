package analytics

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// untracked path prefixes: assets, admin pages, the live socket and the
// privacy policy itself.
var untracked = []string{"/static/", "/images/", "/admin/", "/ws", "/favicon", "/privacy", "/healthz"}

// ShouldTrack reports whether a request path counts as a page view.
func ShouldTrack(path string) bool {
	for _, p := range untracked {
		if strings.HasPrefix(path, p) {
			return false
		}
	}
	return !strings.Contains(path[strings.LastIndex(path, "/")+1:], ".")
}

// Middleware records page views in the background. Requests carrying
// "DNT: 1" are never recorded.
func (s *Store) Middleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.Request.URL.Path
		if c.Request.Method != "GET" || !ShouldTrack(path) || c.GetHeader("DNT") == "1" {
			return
		}
		if c.Writer.Status() >= 400 {
			return
		}
		ip, ua := c.ClientIP(), c.GetHeader("User-Agent")
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.TrackVisit(ctx, ip, ua, path); err != nil {
				logger.Error("analytics.track", "err", err)
			}
		}()
	}
}

// Wait blocks until background writes started by Middleware finish.
func (s *Store) Wait() { s.wg.Wait() }

// RunCleanup deletes expired rows now and then every interval until ctx is
// done.
func (s *Store) RunCleanup(ctx context.Context, retention, interval time.Duration, logger *slog.Logger) {
	run := func() {
		n, err := s.Cleanup(ctx, retention)
		if err != nil {
			logger.Error("analytics.cleanup", "err", err)
			return
		}
		if n > 0 {
			logger.Info("analytics.cleanup", "removed", n)
		}
	}
	run()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			run()
		}
	}
}
