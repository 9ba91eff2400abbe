package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/goyney/irigoyen.dev/internal/admin"
	"github.com/goyney/irigoyen.dev/internal/view"
)

func (s *Server) adminRoutes(r *gin.Engine) {
	if s.Auth == nil {
		return
	}
	r.GET("/admin/login", func(c *gin.Context) { s.renderLogin(c, http.StatusOK, "") })
	r.POST("/admin/login", s.throttled(s.loginLimit, func(c *gin.Context) {
		s.renderLogin(c, http.StatusTooManyRequests, "Too many attempts. Try again later.")
	}), s.handleLogin)
	r.GET("/admin/logout", func(c *gin.Context) {
		admin.ClearCookie(c)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	g := r.Group("/admin", s.Auth.Middleware())
	g.GET("/dashboard", s.handleDashboard)
	g.GET("/api/stats", s.handleStats)
	g.GET("/export/stats", s.handleExport)
	g.POST("/api/cleanup", s.handleCleanup)
}

func (s *Server) renderLogin(c *gin.Context, status int, errMsg string) {
	s.render(c, status, "admin-login", view.Page[view.Login]{
		Meta:    s.meta("Admin Login", c.Request, false),
		Content: view.Login{Error: errMsg},
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	visitor := c.ClientIP()
	if s.Analytics != nil {
		visitor = s.Analytics.HashIP(visitor)
	}
	tok, err := s.Auth.Login(c.PostForm("username"), c.PostForm("password"))
	switch {
	case errors.Is(err, admin.ErrNotConfigured):
		s.renderLogin(c, http.StatusServiceUnavailable, "Admin access is not configured.")
		return
	case err != nil:
		s.Logger.Warn("admin.login.failed", "visitor", visitor)
		s.renderLogin(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	admin.SetCookie(c, tok, s.SecureCookies)
	s.Logger.Info("admin.login", "visitor", visitor)
	c.Redirect(http.StatusFound, "/admin/dashboard")
}

func (s *Server) handleDashboard(c *gin.Context) {
	if s.Analytics == nil {
		s.renderError(c, http.StatusServiceUnavailable, "Analytics are disabled.")
		return
	}
	stats, err := s.Analytics.Stats(c.Request.Context())
	if err != nil {
		s.Logger.Error("admin.stats", "err", err)
		s.renderError(c, http.StatusInternalServerError, "Failed to load statistics")
		return
	}
	s.render(c, http.StatusOK, "admin-dashboard", view.Page[view.Dashboard]{
		Meta:    s.meta("Dashboard", c.Request, false),
		Content: view.Dashboard{User: c.GetString(admin.UserKey), Stats: stats},
	})
}

func (s *Server) handleStats(c *gin.Context) {
	if s.Analytics == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analytics disabled"})
		return
	}
	stats, err := s.Analytics.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleExport(c *gin.Context) {
	c.Header("Content-Disposition", "attachment; filename=site-stats.json")
	s.handleStats(c)
}

// handleCleanup applies the retention window immediately.
func (s *Server) handleCleanup(c *gin.Context) {
	if s.Analytics == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analytics disabled"})
		return
	}
	retention := time.Duration(s.RetentionDays) * 24 * time.Hour
	n, err := s.Analytics.Cleanup(c.Request.Context(), retention)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": n})
}
