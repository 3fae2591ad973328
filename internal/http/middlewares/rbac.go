package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole must run after an auth middleware has attached the caller.
func RequireRole(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := RoleFromContext(c)

		if !ok || role == "" {
			abortUnauthorized(c, "Missing identity context")
			return
		}
		if role != required {
			abortWithError(c, http.StatusForbidden, "forbidden", required+" role required")
			return
		}
		c.Next()
	}
}
