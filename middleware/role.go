package middleware

import (
	"net/http"

	"elanis/models"

	"github.com/gin-gonic/gin"
)

// RequireRole gates a route group to one or more roles. It must run after
// JWTAuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			abort(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "Insufficient permissions")
	}
}
