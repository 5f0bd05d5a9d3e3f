package middleware

import (
	"net/http"

	"cityhub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole passes only when the authenticated user's role is in the
// allowed set. Must run after JWTAuth.
func RequireRole(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(CtxRole)
		if !exists {
			response.AbortError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Please log in")
			return
		}

		for _, r := range allowed {
			if role.(string) == r {
				c.Next()
				return
			}
		}

		response.AbortError(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
	}
}

// AdminOnly requires the admin role.
func AdminOnly() gin.HandlerFunc {
	return RequireRole("admin")
}
