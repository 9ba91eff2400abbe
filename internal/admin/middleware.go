package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserKey is the gin context key holding the authenticated username.
const UserKey = "admin_user"

// Middleware redirects requests without a valid session cookie to the login
// page. JSON endpoints under /admin/api/ get a 401 instead.
func (a *Auth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, err := c.Cookie(CookieName)
		if err == nil {
			if user, err := a.Verify(tok); err == nil {
				c.Set(UserKey, user)
				c.Next()
				return
			}
		}
		if strings.HasPrefix(c.Request.URL.Path, "/admin/api/") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Redirect(http.StatusFound, "/admin/login")
		c.Abort()
	}
}

// SetCookie stores tok for the /admin path.
func SetCookie(c *gin.Context, tok string, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CookieName, tok, int(TokenTTL.Seconds()), "/admin", "", secure, true)
}

// ClearCookie removes the session cookie.
func ClearCookie(c *gin.Context) {
	c.SetCookie(CookieName, "", -1, "/admin", "", false, true)
}
