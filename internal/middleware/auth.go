package middleware

import (
	"net/http"
	"strings"

	"foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const userIDKey = "user_id"

// JWTAuth требует валидный Bearer токен и кладёт user_id в контекст.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			c.Abort()
			return
		}

		if !authenticate(c, jwtService, header) {
			return
		}
		c.Next()
	}
}

// OptionalAuth пропускает анонимов, но битый токен всё равно 401:
// клиент явно пытался авторизоваться.
func OptionalAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		if !authenticate(c, jwtService, header) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, jwtService *jwt.Service, header string) bool {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be: Bearer <token>")
		c.Abort()
		return false
	}

	claims, err := jwtService.ValidateToken(strings.TrimSpace(token))
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		c.Abort()
		return false
	}

	c.Set(userIDKey, claims.UserID)
	return true
}

// UserID returns the authenticated user's id; ok is false for anonymous
// requests.
func UserID(c *gin.Context) (int64, bool) {
	id := c.GetInt64(userIDKey)
	return id, id > 0
}

// RequireUser is for handlers behind JWTAuth. It writes 401 itself when
// the id is missing so callers only need to return.
func RequireUser(c *gin.Context) (int64, bool) {
	id, ok := UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		c.Abort()
	}
	return id, ok
}
