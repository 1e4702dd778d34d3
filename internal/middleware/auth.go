package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"campusride/internal/auth"
	"campusride/internal/domain"
)

// Context keys set by Authenticate.
const (
	ContextUserID = "auth_user_id"
	ContextRole   = "auth_role"
)

// Authenticate validates the Bearer token and stores the caller's identity
// in the request context. Requests without a valid token are rejected.
func Authenticate(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireRole gates a route on the access policy: the authenticated role
// must be in the allowed set.
func RequireRole(allowed ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := CallerRole(c)
		if !auth.Allowed(role, allowed...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// CallerID returns the authenticated user ID, or "" when unauthenticated.
func CallerID(c *gin.Context) string {
	id, _ := c.Get(ContextUserID)
	s, _ := id.(string)
	return s
}

// CallerRole returns the authenticated role, or "" when unauthenticated.
func CallerRole(c *gin.Context) domain.Role {
	r, _ := c.Get(ContextRole)
	role, _ := r.(domain.Role)
	return role
}
