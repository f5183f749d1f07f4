package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/ketoslim-funnel/pkg/errors"
)

// TokenIssuer mints and verifies session cookie values.
type TokenIssuer interface {
	Issue() (string, string, error)
	Parse(token string) (string, error)
	TTL() time.Duration
}

// sessionMiddleware attaches the visitor's session ID to the request. A
// missing or invalid cookie starts a new session instead of failing.
func sessionMiddleware(tokens TokenIssuer, cookie CookieConfig, onNew func(), logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := readSessionCookie(c, cookie); ok {
			id, err := tokens.Parse(token)
			if err == nil {
				setSessionID(c, id)
				c.Next()
				return
			}
			if !apperrors.IsCode(err, "invalid_token") {
				abortWithError(c, NewHTTPError(http.StatusInternalServerError, "session_error", errMessage(err), err))
				return
			}
			logger.Debug("session token rejected", "error", err)
		}

		id, token, err := tokens.Issue()
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusInternalServerError, "session_error", "failed to start session", err))
			return
		}
		setSessionCookie(c, cookie, token, tokens.TTL())
		setSessionID(c, id)
		if onNew != nil {
			onNew()
		}
		c.Next()
	}
}
