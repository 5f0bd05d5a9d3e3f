package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"cityhub/internal/domain"
	"cityhub/internal/pkg/jwt"
	"cityhub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Context keys set by JWTAuth for downstream handlers.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxUser   = "user"
)

// UserLoader resolves the token subject to a full user record.
type UserLoader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// JWTAuth guards protected routes: it extracts the bearer token, verifies it
// against the access secret, resolves the current user and rejects disabled
// accounts. The resolved user is attached to the gin context.
func JWTAuth(codec *jwt.Service, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.AbortError(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Please log in")
			return
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.AbortError(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Please log in")
			return
		}

		claims, err := codec.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				response.AbortError(c, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token expired")
				return
			}
			response.AbortError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token")
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "USER_NOT_FOUND", "User not found")
			return
		}
		if !user.IsActive {
			response.AbortError(c, http.StatusUnauthorized, "ACCOUNT_DISABLED", "Account disabled")
			return
		}

		c.Set(CtxUserID, user.ID)
		c.Set(CtxRole, string(user.Role))
		c.Set(CtxUser, user)

		c.Next()
	}
}

// CurrentUser returns the user attached by JWTAuth.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}
