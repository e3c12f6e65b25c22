package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/venkatarun/hidden-habits/internal/core/services"
)

// NotFound writes the same not-found response for unknown routes and for
// unauthenticated probes of gated routes, so the two are indistinguishable.
// Wire it as the router's NoRoute handler too.
func NotFound(c *gin.Context) {
	c.String(http.StatusNotFound, "404 page not found")
}

// SessionMiddleware gates a route group behind a valid session cookie. A
// missing, malformed or expired token (or a disabled feature) yields the
// shared not-found response, never an auth error.
func SessionMiddleware(sessions *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(services.SessionCookieName)
		if err != nil || !sessions.IsTokenValid(token) {
			NotFound(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
