package admin

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuth(t *testing.T) *Auth {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return NewAuth("admin", string(hash), "test-secret")
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")) != nil {
		t.Error("hash does not match password")
	}
	if _, err := HashPassword(""); err == nil {
		t.Error("expected error for empty password")
	}
}

func TestLogin(t *testing.T) {
	a := newTestAuth(t)
	tests := []struct {
		name, user, pass string
		wantErr          error
	}{
		{"ok", "admin", "hunter2", nil},
		{"bad password", "admin", "nope", ErrInvalidCredentials},
		{"bad user", "root", "hunter2", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := a.Login(tt.user, tt.pass)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Login() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			user, err := a.Verify(tok)
			if err != nil || user != "admin" {
				t.Errorf("Verify() = %q, %v", user, err)
			}
		})
	}
}

func TestNotConfigured(t *testing.T) {
	a := NewAuth("admin", "", "")
	if a.Enabled() {
		t.Error("Enabled() = true without hash")
	}
	if _, err := a.Login("admin", "x"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Login() error = %v", err)
	}
}

func TestVerifyRejects(t *testing.T) {
	a := newTestAuth(t)
	tok, err := a.Login("admin", "hunter2")
	if err != nil {
		t.Fatal(err)
	}

	other := NewAuth("admin", string(a.hash), "other-secret")
	if _, err := other.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign secret: err = %v", err)
	}

	a.now = func() time.Time { return time.Now().Add(2 * TokenTTL) }
	if _, err := a.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired: err = %v", err)
	}

	if _, err := newTestAuth(t).Verify("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage: err = %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a := newTestAuth(t)
	r := gin.New()
	g := r.Group("/admin", a.Middleware())
	g.GET("/dashboard", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(UserKey)) })
	g.GET("/api/stats", func(c *gin.Context) { c.String(http.StatusOK, "{}") })

	tok, _ := a.Login("admin", "hunter2")
	tests := []struct {
		name, path, cookie string
		wantCode           int
	}{
		{"no cookie redirects", "/admin/dashboard", "", http.StatusFound},
		{"api unauthorized", "/admin/api/stats", "", http.StatusUnauthorized},
		{"bad cookie", "/admin/dashboard", "junk", http.StatusFound},
		{"valid", "/admin/dashboard", tok, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", w.Code, tt.wantCode)
			}
			if tt.wantCode == http.StatusOK && w.Body.String() != "admin" {
				t.Errorf("body = %q", w.Body.String())
			}
		})
	}
}
