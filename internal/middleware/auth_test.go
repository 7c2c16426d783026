package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebasr/ecosense-service/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestMiddleware() (*AuthMiddleware, *auth.JWTService) {
	jwtService := auth.NewJWTService("test-secret-key", time.Hour)
	return NewAuthMiddleware(jwtService), jwtService
}

func protectedRouter(handler gin.HandlerFunc, called *bool, operator *string) *gin.Engine {
	router := gin.New()
	router.GET("/protected", handler, func(c *gin.Context) {
		*called = true
		*operator, _ = GetOperator(c)
		c.Status(http.StatusOK)
	})
	return router
}

func TestAuthMiddleware_Required_ValidToken(t *testing.T) {
	middleware, jwtService := setupTestMiddleware()
	token, _, err := jwtService.GenerateToken("dashboard")
	require.NoError(t, err)

	var called bool
	var operator string
	router := protectedRouter(middleware.Required(), &called, &operator)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dashboard", operator)
}

func TestAuthMiddleware_Required_Rejects(t *testing.T) {
	middleware, _ := setupTestMiddleware()
	expired, _, err := auth.NewJWTService("test-secret-key", -time.Hour).GenerateToken("dashboard")
	require.NoError(t, err)
	foreign, _, err := auth.NewJWTService("other-secret", time.Hour).GenerateToken("dashboard")
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
	}{
		{name: "no header", authHeader: ""},
		{name: "missing Bearer prefix", authHeader: "token123"},
		{name: "wrong scheme", authHeader: "Basic dXNlcjpwYXNz"},
		{name: "empty token", authHeader: "Bearer "},
		{name: "garbage token", authHeader: "Bearer invalid.token.here"},
		{name: "expired token", authHeader: "Bearer " + expired},
		{name: "foreign secret", authHeader: "Bearer " + foreign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			var operator string
			router := protectedRouter(middleware.Required(), &called, &operator)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			router.ServeHTTP(w, req)

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "unauthorized")
		})
	}
}

func TestAuthMiddleware_Required_DisabledPassesThrough(t *testing.T) {
	middleware := NewAuthMiddleware(nil)
	assert.False(t, middleware.Enabled())

	var called bool
	var operator string
	router := protectedRouter(middleware.Required(), &called, &operator)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, operator)
}

func TestGetOperator_NotSet(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	operator, ok := GetOperator(c)

	assert.False(t, ok)
	assert.Empty(t, operator)
}

func TestGetOperator_InvalidType(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(string(OperatorKey), 42)

	_, ok := GetOperator(c)

	assert.False(t, ok)
}
