package utils

import "github.com/gin-gonic/gin"

// gin context keys set by the auth middleware
const (
	CtxUserID    = "userId"
	CtxRole      = "role"
	CtxEmail     = "email"
	CtxRequestID = "requestId"
)

func CurrentUserID(c *gin.Context) uint {
	v, _ := c.Get(CtxUserID)
	switch id := v.(type) {
	case uint:
		return id
	case int:
		return uint(id)
	case int64:
		return uint(id)
	case float64:
		return uint(id)
	default:
		return 0
	}
}

func CurrentRole(c *gin.Context) string {
	return c.GetString(CtxRole)
}

func CurrentEmail(c *gin.Context) string {
	return c.GetString(CtxEmail)
}

func RequestID(c *gin.Context) string {
	return c.GetString(CtxRequestID)
}
