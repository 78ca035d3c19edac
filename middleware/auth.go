package middleware

import (
	"net/http"
	"strings"

	"elanis/services/auth"
	"elanis/utils"

	"github.com/gin-gonic/gin"
)

const claimsKey = "authClaims"

// JWTAuthMiddleware validates the bearer token, checks the revocation list
// and stashes the claims for handlers.
func JWTAuthMiddleware(authService auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abort(c, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid token")
			return
		}
		if authService.IsRevoked(tokenString) {
			abort(c, http.StatusUnauthorized, "Token has been revoked")
			return
		}

		c.Set(claimsKey, claims)
		c.Set("rawToken", tokenString)
		c.Next()
	}
}

// Claims returns the authenticated claims set by JWTAuthMiddleware.
func Claims(c *gin.Context) *utils.TokenClaims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*utils.TokenClaims)
	return claims
}

// RawToken returns the bearer token string set by JWTAuthMiddleware.
func RawToken(c *gin.Context) string {
	return c.GetString("rawToken")
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, utils.Response{
		Succeeded:  false,
		StatusCode: status,
		Message:    message,
		Data:       nil,
	})
}
