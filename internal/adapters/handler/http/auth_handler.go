package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/venkatarun/hidden-habits/internal/adapters/handler/http/middleware"
	"github.com/venkatarun/hidden-habits/internal/core/services"
)

const (
	hiddenTabPath = "/hidden"
	lockedAwayTo  = "/about"
)

// AuthHandler is the page-boundary auth surface: unlock sets the session
// cookie, lock clears it, status tells the page what to render. Unlike the
// sync API, this boundary may admit the feature exists (or say it is
// disabled) because the page itself is public.
type AuthHandler struct {
	sessions *services.SessionService
}

func NewAuthHandler(sessions *services.SessionService) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
	}
}

func (h *AuthHandler) Unlock(c *gin.Context) {
	if !h.sessions.Enabled() {
		middleware.NotFound(c)
		return
	}

	if !h.sessions.IsPasswordMatch(c.PostForm("password")) {
		c.Redirect(http.StatusSeeOther, hiddenTabPath+"?error=1")
		return
	}

	token, err := h.sessions.CreateToken()
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	h.setSessionCookie(c, token, h.sessions.CookieMaxAge())
	c.Redirect(http.StatusSeeOther, hiddenTabPath)
}

func (h *AuthHandler) Lock(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.Redirect(http.StatusSeeOther, lockedAwayTo)
}

func (h *AuthHandler) Status(c *gin.Context) {
	unlocked := false
	if token, err := c.Cookie(services.SessionCookieName); err == nil {
		unlocked = h.sessions.IsTokenValid(token)
	}

	c.JSON(http.StatusOK, gin.H{
		"configured": h.sessions.Enabled(),
		"unlocked":   unlocked,
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	secure := gin.Mode() == gin.ReleaseMode
	c.SetCookie(services.SessionCookieName, token, maxAge, "/", "", secure, true)
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	hiddenGroup := router.Group(hiddenTabPath)
	{
		hiddenGroup.POST("/unlock", h.Unlock)
		hiddenGroup.POST("/lock", h.Lock)
		hiddenGroup.GET("/status", h.Status)
	}
}
