package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

func setSessionCookie(c *gin.Context, cfg CookieConfig, token string, ttl time.Duration) {
	secure := cfg.Secure || c.Request.TLS != nil
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.Name, token, int(ttl.Seconds()), "/", "", secure, true)
}

func readSessionCookie(c *gin.Context, cfg CookieConfig) (string, bool) {
	value, err := c.Cookie(cfg.Name)
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}
