package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/adega-api/auth"
)

// AdminEmailKey holds the session email in the gin context.
const AdminEmailKey = "admin_email"

// WantsHTML reports whether the client is a browser asking for a page.
func WantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}

// RequireAdmin verifies the session cookie on every request. Browsers
// navigating to a page are sent to the login screen; API calls get 401.
func RequireAdmin(sessions *auth.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := sessions.FromRequest(c)
		if err != nil {
			if c.Request.Method == http.MethodGet && WantsHTML(c) {
				c.Redirect(http.StatusFound, "/admin/login")
				c.Abort()
				return
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			c.Abort()
			return
		}

		c.Set(AdminEmailKey, claims.Email)
		c.Next()
	}
}

// RedirectIfAuthenticated skips the login page for a valid session.
func RedirectIfAuthenticated(sessions *auth.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := sessions.FromRequest(c); err == nil {
			c.Redirect(http.StatusFound, "/admin/orders")
			c.Abort()
			return
		}
		c.Next()
	}
}
