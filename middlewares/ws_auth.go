package middlewares

import (
	"strings"

	"github.com/SinaAfzali/elite-bite/pkg/resp"

	"github.com/gin-gonic/gin"
)

// WSAuthMiddleware accepts the token from ?token= (browsers cannot set headers
// on a websocket handshake) or from the Authorization header.
func WSAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.Query("token")
		if tokenStr == "" {
			if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
				tokenStr = strings.TrimPrefix(h, "Bearer ")
			}
		}
		if tokenStr == "" {
			resp.Unauthorized(c, "missing token")
			return
		}
		if !authenticate(c, tokenStr, secret) {
			return
		}
		c.Next()
	}
}
