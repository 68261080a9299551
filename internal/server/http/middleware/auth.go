package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/rvslabs/membercore/internal/pkg/auth"
)

const (
	// StaffIDContextKey is the gin context key holding the authenticated
	// staff identifier.
	StaffIDContextKey = "staffID"
	authCookieName    = "membercore_token"
)

// TokenParser resolves a token to a staff identifier.
type TokenParser interface {
	ParseToken(token string) (string, error)
}

// AuthRequired rejects requests that do not carry a valid staff token in
// either the Authorization header or the session cookie.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		staffID, err := parser.ParseToken(token)
		switch {
		case err == nil:
			c.Set(StaffIDContextKey, staffID)
			c.Next()
		case errors.Is(err, pkgAuth.ErrInvalidToken):
			c.AbortWithStatus(http.StatusUnauthorized)
		default:
			c.AbortWithStatus(http.StatusInternalServerError)
		}
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie stores the issued token on the response, both as the
// session cookie and as a bearer header for non-browser clients.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
