// Package web wires the site's HTTP routes onto a gin engine.
package web

import (
	"bytes"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/goyney/irigoyen.dev/internal/admin"
	"github.com/goyney/irigoyen.dev/internal/analytics"
	"github.com/goyney/irigoyen.dev/internal/content"
	"github.com/goyney/irigoyen.dev/internal/header"
	"github.com/goyney/irigoyen.dev/internal/live"
	"github.com/goyney/irigoyen.dev/internal/mail"
	"github.com/goyney/irigoyen.dev/internal/page"
	"github.com/goyney/irigoyen.dev/internal/view"
)

// DefaultViewportWidth is assumed for the first render when the browser
// sends no Sec-CH-Viewport-Width hint.
const DefaultViewportWidth = 1280

// Deps are the collaborators the routes use. Analytics, Mailer and Hub may be
// nil; the features they back are then switched off.
type Deps struct {
	Logger    *slog.Logger
	Content   *content.Store
	View      *view.Renderer
	Analytics *analytics.Store
	Auth      *admin.Auth
	Mailer    mail.Sender
	Hub       *live.Hub

	// BuildDir holds `irigoyen build` output. Static holds the unbuilt
	// sources served under /static/.
	BuildDir string
	Static   fs.FS

	RetentionDays int
	SecureCookies bool
}

// Server is the site's HTTP handler.
type Server struct {
	Deps
	engine       *gin.Engine
	contactLimit *throttle
	loginLimit   *throttle
}

// New builds the engine and registers every route.
func New(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	s := &Server{
		Deps:         d,
		contactLimit: newThrottle(5, 10*time.Minute),
		loginLimit:   newThrottle(10, 15*time.Minute),
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(d.Logger), securityHeaders())
	if d.Analytics != nil {
		r.Use(d.Analytics.Middleware(d.Logger))
	}

	r.GET("/", s.handleIndex)
	r.GET("/blog/", s.handleBlog)
	r.GET("/blog/:slug", s.handlePost)
	r.POST("/contact", s.throttled(s.contactLimit, func(c *gin.Context) {
		s.contactResult(c, http.StatusTooManyRequests, false, "Too many messages. Please try again later.")
	}), s.handleContact)
	r.GET("/privacy", s.handlePrivacy)
	r.GET("/api/nav", s.handleNav)
	r.GET("/healthz", s.handleHealth)
	if d.Hub != nil {
		r.GET("/ws", gin.WrapH(d.Hub))
	}
	if d.Static != nil {
		r.StaticFS("/static", http.FS(d.Static))
	}
	s.adminRoutes(r)
	r.NoRoute(s.handleFile)

	s.engine = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// initialHeader renders the header the way a live session would see it on
// connect, using the viewport width client hint when present.
func (s *Server) initialHeader(r *http.Request) header.View {
	width := DefaultViewportWidth
	if v, err := strconv.Atoi(r.Header.Get("Sec-CH-Viewport-Width")); err == nil && v > 0 {
		width = v
	}
	p := page.New(nil, page.WithInitial(page.InitialActive(r.URL.Path)))
	noop := header.RouterFunc(func(string) {})
	return header.New(header.Static{Width: width}, noop, p, header.WithProgress(true)).View()
}

func (s *Server) meta(title string, r *http.Request, withHeader bool) view.Meta {
	m := s.View.Meta(title, r.URL.Path)
	m.Live = withHeader && s.Hub != nil
	return m
}

func (s *Server) render(c *gin.Context, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.View.Render(&buf, name, data); err != nil {
		s.Logger.Error("web.render", "page", name, "err", err)
		c.String(http.StatusInternalServerError, "template error")
		return
	}
	c.Header("Accept-CH", "Sec-CH-Viewport-Width")
	c.Header("Vary", "Sec-CH-Viewport-Width")
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) renderError(c *gin.Context, status int, msg string) {
	s.render(c, status, "error", view.Page[view.Error]{
		Meta:    s.meta(http.StatusText(status), c.Request, false),
		Content: view.Error{Status: status, Message: msg},
	})
}
