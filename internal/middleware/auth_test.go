package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cityhub/internal/domain"
	"cityhub/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type stubUserLoader struct {
	users map[int64]*domain.User
}

func (s *stubUserLoader) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func activeUser(id int64, role domain.UserRole) *stubUserLoader {
	return &stubUserLoader{users: map[int64]*domain.User{
		id: {ID: id, Email: "u@x.com", Role: role, IsActive: true},
	}}
}

func TestJWTAuth_ValidToken(t *testing.T) {
	codec := jwt.New("test-secret-123", time.Hour)
	validToken, _ := codec.GenerateToken(42, "user")

	router := gin.New()
	router.Use(JWTAuth(codec, activeUser(42, domain.RoleUser)))
	router.GET("/protected", func(c *gin.Context) {
		userID, _ := c.Get(CtxUserID)
		role, _ := c.Get(CtxRole)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+validToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
	assert.Contains(t, w.Body.String(), "user")
}

func TestJWTAuth_NoToken(t *testing.T) {
	codec := jwt.New("secret", time.Hour)

	router := gin.New()
	router.Use(JWTAuth(codec, activeUser(1, domain.RoleUser)))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("should not reach handler")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_HEADER_MISSING")
	assert.Contains(t, w.Body.String(), "Please log in")
}

func TestJWTAuth_WrongFormat(t *testing.T) {
	codec := jwt.New("secret", time.Hour)

	router := gin.New()
	router.Use(JWTAuth(codec, activeUser(1, domain.RoleUser)))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("should not reach handler")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Basic dGVzdA==")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_AUTH_FORMAT")
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	codec := jwt.New("secret", time.Hour)

	router := gin.New()
	router.Use(JWTAuth(codec, activeUser(1, domain.RoleUser)))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("should not reach handler")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer invalid-jwt-here")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	expiredCodec := jwt.New("secret", -time.Minute)
	expired, _ := expiredCodec.GenerateToken(1, "user")

	codec := jwt.New("secret", time.Hour)
	router := gin.New()
	router.Use(JWTAuth(codec, activeUser(1, domain.RoleUser)))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("should not reach handler")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
	assert.Contains(t, w.Body.String(), "Token expired")
}

func TestJWTAuth_UserGone(t *testing.T) {
	codec := jwt.New("secret", time.Hour)
	token, _ := codec.GenerateToken(99, "user")

	router := gin.New()
	router.Use(JWTAuth(codec, &stubUserLoader{users: map[int64]*domain.User{}}))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("should not reach handler")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "USER_NOT_FOUND")
}

func TestJWTAuth_DisabledAccount(t *testing.T) {
	codec := jwt.New("secret", time.Hour)
	token, _ := codec.GenerateToken(7, "user")

	loader := &stubUserLoader{users: map[int64]*domain.User{
		7: {ID: 7, Email: "u@x.com", Role: domain.RoleUser, IsActive: false},
	}}

	router := gin.New()
	router.Use(JWTAuth(codec, loader))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("should not reach handler")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ACCOUNT_DISABLED")
}

func TestRequireRole(t *testing.T) {
	codec := jwt.New("secret", time.Hour)

	newRouter := func(loader UserLoader) *gin.Engine {
		router := gin.New()
		router.Use(JWTAuth(codec, loader))
		router.GET("/admin", RequireRole("admin"), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return router
	}

	adminToken, _ := codec.GenerateToken(1, "admin")
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	newRouter(activeUser(1, domain.RoleAdmin)).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	userToken, _ := codec.GenerateToken(2, "user")
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	newRouter(activeUser(2, domain.RoleUser)).ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}
