package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodgram/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(t *testing.T, mw gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(mw)
	router.GET("/protected", func(c *gin.Context) {
		id, ok := UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id, "authenticated": ok})
	})
	return router
}

func doGet(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_ValidToken(t *testing.T) {
	jwtService := jwt.New("test-secret-123", time.Hour)
	token, err := jwtService.GenerateToken(42)
	require.NoError(t, err)

	w := doGet(protectedRouter(t, JWTAuth(jwtService)), "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":42,"authenticated":true}`, w.Body.String())
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	w := doGet(protectedRouter(t, JWTAuth(jwt.New("secret", time.Hour))), "Bearer invalid-jwt-here")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestJWTAuth_NoToken(t *testing.T) {
	w := doGet(protectedRouter(t, JWTAuth(jwt.New("secret", time.Hour))), "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_HEADER_MISSING")
}

func TestJWTAuth_WrongFormat(t *testing.T) {
	w := doGet(protectedRouter(t, JWTAuth(jwt.New("secret", time.Hour))), "Basic dGVzdA==")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_AUTH_FORMAT")
}

func TestOptionalAuth(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour)
	router := protectedRouter(t, OptionalAuth(jwtService))

	anon := doGet(router, "")
	assert.Equal(t, http.StatusOK, anon.Code)
	assert.JSONEq(t, `{"user_id":0,"authenticated":false}`, anon.Body.String())

	token, err := jwtService.GenerateToken(7)
	require.NoError(t, err)
	authed := doGet(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, authed.Code)
	assert.JSONEq(t, `{"user_id":7,"authenticated":true}`, authed.Body.String())

	broken := doGet(router, "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, broken.Code)
}
