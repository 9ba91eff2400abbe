package web

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/goyney/irigoyen.dev/internal/analytics"
	"github.com/goyney/irigoyen.dev/internal/content"
	"github.com/goyney/irigoyen.dev/internal/header"
	"github.com/goyney/irigoyen.dev/internal/mail"
	"github.com/goyney/irigoyen.dev/internal/page"
	"github.com/goyney/irigoyen.dev/internal/view"
)

func (s *Server) handleIndex(c *gin.Context) {
	s.render(c, http.StatusOK, "index", view.Page[view.Index]{
		Meta:    s.meta("", c.Request, true),
		Header:  s.initialHeader(c.Request),
		Content: view.Index{Site: s.Content.Site()},
	})
}

func (s *Server) handleBlog(c *gin.Context) {
	s.render(c, http.StatusOK, "blog", view.Page[view.Blog]{
		Meta:    s.meta("Blog", c.Request, true),
		Header:  s.initialHeader(c.Request),
		Content: view.Blog{Site: s.Content.Site(), Posts: s.Content.Posts()},
	})
}

func (s *Server) handlePost(c *gin.Context) {
	p, err := s.Content.Post(c.Param("slug"))
	if errors.Is(err, content.ErrPostNotFound) {
		s.renderError(c, http.StatusNotFound, "That post does not exist.")
		return
	}
	if err != nil {
		s.Logger.Error("web.post", "slug", c.Param("slug"), "err", err)
		s.renderError(c, http.StatusInternalServerError, "Something went wrong.")
		return
	}
	s.render(c, http.StatusOK, "post", view.Page[view.Post]{
		Meta:    s.meta(p.Title, c.Request, true),
		Header:  s.initialHeader(c.Request),
		Content: view.Post{Site: s.Content.Site(), Post: p},
	})
}

func (s *Server) handlePrivacy(c *gin.Context) {
	s.render(c, http.StatusOK, "privacy", view.Page[int]{
		Meta:    s.meta("Privacy Policy", c.Request, false),
		Content: s.RetentionDays,
	})
}

type navResponse struct {
	Items      []header.MenuItem `json:"items"`
	Sections   []string          `json:"sections"`
	Breakpoint int               `json:"breakpoint"`
}

func (s *Server) handleNav(c *gin.Context) {
	c.JSON(http.StatusOK, navResponse{
		Items:      header.MenuItems,
		Sections:   page.SectionIDs,
		Breakpoint: header.MobileBreakpoint,
	})
}

// handleContact stores the message, then mails it when a mailer is set up.
// The visitor sees success if either step worked.
func (s *Server) handleContact(c *gin.Context) {
	msg := mail.Contact{
		Name:    strings.TrimSpace(c.PostForm("name")),
		Email:   strings.TrimSpace(c.PostForm("email")),
		Message: strings.TrimSpace(c.PostForm("message")),
	}
	if err := msg.Validate(); err != nil {
		s.contactResult(c, http.StatusBadRequest, false, "Please fill in your name, a valid email and a message.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	var (
		id     int64
		stored bool
	)
	if s.Analytics != nil {
		var err error
		id, err = s.Analytics.SaveMessage(ctx, analytics.Message{Name: msg.Name, Email: msg.Email, Body: msg.Message})
		if err != nil {
			s.Logger.Error("contact.store", "err", err)
		} else {
			stored = true
		}
	}

	delivered := false
	if s.Mailer != nil {
		if err := s.Mailer.Send(ctx, msg); err != nil {
			if !errors.Is(err, mail.ErrNotConfigured) {
				s.Logger.Error("contact.mail", "err", err)
			}
		} else {
			delivered = true
			if stored {
				if err := s.Analytics.MarkDelivered(ctx, id); err != nil {
					s.Logger.Error("contact.mark", "id", id, "err", err)
				}
			}
		}
	}

	if !stored && !delivered {
		s.contactResult(c, http.StatusServiceUnavailable, false, "Sorry, there was an error sending your message. Please try again later.")
		return
	}
	s.Logger.Info("contact.received", "stored", stored, "delivered", delivered)
	s.contactResult(c, http.StatusOK, true, "Thank you for your message! I'll get back to you soon.")
}

var fingerprinted = regexp.MustCompile(`^[0-9a-f]{20}\.[a-z0-9]+$`)

// handleFile serves build output from the site root, then top-level source
// files such as robots.txt, and finally a 404 page.
func (s *Server) handleFile(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		s.renderError(c, http.StatusNotFound, "Page not found.")
		return
	}
	name := strings.TrimPrefix(path.Clean("/"+c.Request.URL.Path), "/")
	if name != "" && !strings.Contains(name, "/") {
		if s.BuildDir != "" {
			full := filepath.Join(s.BuildDir, name)
			if fi, err := os.Stat(full); err == nil && !fi.IsDir() {
				if fingerprinted.MatchString(name) {
					c.Header("Cache-Control", "public, max-age=31536000, immutable")
				}
				c.File(full)
				return
			}
		}
		if s.Static != nil {
			if f, err := s.Static.Open(name); err == nil {
				fi, err := f.Stat()
				f.Close()
				if err == nil && !fi.IsDir() {
					c.FileFromFS(name, http.FS(s.Static))
					return
				}
			}
		}
	}
	s.renderError(c, http.StatusNotFound, "Page not found.")
}

type health struct {
	Status   string `json:"status"`
	Sessions int    `json:"live_sessions"`
}

func (s *Server) handleHealth(c *gin.Context) {
	h := health{Status: "ok"}
	if s.Hub != nil {
		h.Sessions = s.Hub.Len()
	}
	c.JSON(http.StatusOK, h)
}

func (s *Server) contactResult(c *gin.Context, status int, ok bool, msg string) {
	s.render(c, status, "contact", view.Page[view.ContactResult]{
		Meta:    s.meta("Contact", c.Request, false),
		Content: view.ContactResult{OK: ok, Message: msg},
	})
}
