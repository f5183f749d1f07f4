package http

import "github.com/gin-gonic/gin"

const sessionIDKey = "session_id"

func setSessionID(c *gin.Context, id string) {
	c.Set(sessionIDKey, id)
}

func getSessionID(c *gin.Context) (string, bool) {
	value, ok := c.Get(sessionIDKey)
	if !ok {
		return "", false
	}
	id, ok := value.(string)
	return id, ok && id != ""
}
