package middleware

import (
	"net/http"
	"strings"

	"coolkid-chat/backend/pkg/jwt"
	"coolkid-chat/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// NOTE: The context key for user ID is always 'userId' (lowercase 'd').

// JWTAuth returns a middleware that validates the bearer token and puts
// the user id and claims into the request context.
func JWTAuth(jwtService *jwt.Service, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			log.Warn("Token validation failed", "error", err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set("userId", claims.UserID)
		c.Set("claims", claims)
		c.Next()
	}
}

// OptionalJWTAuth resolves the user id when a valid bearer token is
// present but lets anonymous requests through untouched.
func OptionalJWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if tokenString, found := strings.CutPrefix(authHeader, "Bearer "); found {
			if claims, err := jwtService.ValidateToken(tokenString); err == nil {
				c.Set("userId", claims.UserID)
				c.Set("claims", claims)
			}
		}
		c.Next()
	}
}

// UserID returns the authenticated user id from the context.
func UserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("userId")
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
