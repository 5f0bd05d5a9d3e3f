package user

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cityhub/internal/middleware"
	"cityhub/internal/pkg/pagination"
	"cityhub/internal/pkg/response"
	"cityhub/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

const refreshCookieName = "refreshToken"

// CookieOptions controls the refresh-token cookie. MaxAge deliberately
// follows config, not the refresh TTL; the ledger decides validity.
type CookieOptions struct {
	MaxAge   time.Duration
	Path     string
	Secure   bool
	SameSite string
}

// Handler manages all HTTP interactions for accounts and sessions.
type Handler struct {
	service *Service
	cookies CookieOptions
}

func NewHandler(service *Service, cookies CookieOptions) *Handler {
	return &Handler{service: service, cookies: cookies}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	users := v1.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.POST("/refresh-token", h.RefreshToken)
		users.POST("/logout", h.Logout)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	users := protected.Group("/users")
	{
		users.GET("/profile", h.GetProfile)
		users.PATCH("/profile", h.UpdateProfile)
		users.POST("/change-password", h.ChangePassword)
	}
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	users := admin.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	u, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
			return
		}
		response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register user")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user": u})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Email or password is incorrect")
		case errors.Is(err, ErrAccountDisabled):
			response.Error(c, http.StatusForbidden, "ACCOUNT_DISABLED", "Account disabled")
		default:
			response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to login")
		}
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)

	response.Success(c, http.StatusOK, gin.H{
		"user":        result.User,
		"accessToken": result.AccessToken,
	})
}

func (h *Handler) RefreshToken(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil || refreshToken == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Please log in")
		return
	}

	accessToken, err := h.service.Refresh(c.Request.Context(), refreshToken, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		if errors.Is(err, ErrInvalidRefreshToken) {
			response.Error(c, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "Invalid refresh token")
			return
		}
		response.Error(c, http.StatusInternalServerError, "REFRESH_FAILED", "Failed to refresh token")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"accessToken": accessToken})
}

// Logout only clears the cookie; the ledger row stays untouched and expires
// naturally (or dies with the next password change).
func (h *Handler) Logout(c *gin.Context) {
	h.clearRefreshCookie(c)
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *Handler) GetProfile(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Please log in")
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), u.ID)
	if err != nil {
		response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": profile})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Please log in")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fields := validator.Validate(&req); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", fields)
		return
	}

	updated, err := h.service.UpdateProfile(c.Request.Context(), u.ID, req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Could not update profile")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": updated})
}

func (h *Handler) ChangePassword(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Please log in")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), u.ID, req); err != nil {
		if errors.Is(err, ErrWrongOldPassword) {
			response.Error(c, http.StatusBadRequest, "WRONG_OLD_PASSWORD", "Wrong old password")
			return
		}
		response.Error(c, http.StatusInternalServerError, "PASSWORD_CHANGE_FAILED", "Failed to change password")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Password changed"})
}

func (h *Handler) ListUsers(c *gin.Context) {
	p := pagination.FromQuery(c, []string{"created_at", "email", "name", "last_login_at"}, "created_at")

	users, total, err := h.service.ListUsers(c.Request.Context(), p)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list users")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"users":      users,
		"pagination": pagination.NewMeta(total, p),
	})
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	u, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "GET_FAILED", "Failed to load user")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": u})
}

func (h *Handler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(sameSiteMode(h.cookies.SameSite))
	c.SetCookie(refreshCookieName, token, int(h.cookies.MaxAge.Seconds()), h.cookies.Path, "", h.cookies.Secure, true)
}

func (h *Handler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(sameSiteMode(h.cookies.SameSite))
	c.SetCookie(refreshCookieName, "", -1, h.cookies.Path, "", h.cookies.Secure, true)
}

func sameSiteMode(v string) http.SameSite {
	switch strings.ToLower(v) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
