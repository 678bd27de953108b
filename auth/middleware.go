package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys set by RequireAuth and read by the handlers.
const (
	CtxUserID = "userID"
	CtxRole   = "role"
)

// RequireAuth verifies the bearer token and records the caller's identity
// and role in the request context. A missing token and an invalid token
// are distinct failures, checked in that order.
func RequireAuth(issuer *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Authorization token required"})
			c.Abort()
			return
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		claims, err := issuer.Validate(raw)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// RequireRole restricts a route to the given roles. Must run after
// RequireAuth; ownership checks stay with the individual handlers.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"message": "Access restricted for role " + role})
		c.Abort()
	}
}
