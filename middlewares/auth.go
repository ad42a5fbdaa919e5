package middlewares

import (
	"slices"
	"strings"

	"github.com/SinaAfzali/elite-bite/pkg/resp"
	"github.com/SinaAfzali/elite-bite/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies the bearer token and, if roles are given, requires
// one of them.
func AuthMiddleware(secret string, requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			resp.Unauthorized(c, "missing or invalid token")
			return
		}
		if !authenticate(c, strings.TrimPrefix(h, "Bearer "), secret) {
			return
		}
		if len(requiredRoles) > 0 && !slices.Contains(requiredRoles, utils.CurrentRole(c)) {
			resp.Forbidden(c, "forbidden")
			return
		}
		c.Next()
	}
}

// authenticate stores the token's identity on c, or aborts with 401.
func authenticate(c *gin.Context, tokenStr, secret string) bool {
	claims, err := utils.ParseToken(tokenStr, secret)
	if err != nil {
		resp.Unauthorized(c, "invalid token")
		return false
	}
	c.Set(utils.CtxUserID, claims.UserID)
	c.Set(utils.CtxRole, claims.Role)
	c.Set(utils.CtxEmail, claims.Email)
	return true
}
