package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-parser-backend/internal/shared/auth"
	"resume-parser-backend/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"
	userNameKey  = "userName"
)

// RequireAuth verifies the Authorization header and stores identity in the
// request context. Both a bare token and a "Bearer <token>" value are
// accepted. Each 401 carries a distinct reason so clients can tell a missing
// token from an expired or tampered one.
func RequireAuth(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer"))
		if raw == "" {
			respond.Error(c, http.StatusUnauthorized, "Token is missing")
			return
		}

		claims, err := tokens.Verify(raw)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				respond.Error(c, http.StatusUnauthorized, "Token has expired")
				return
			}
			respond.Error(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		c.Set(userIDKey, claims.UserID)
		if claims.Email != "" {
			c.Set(userEmailKey, claims.Email)
		}
		if claims.Name != "" {
			c.Set(userNameKey, claims.Name)
		}
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by RequireAuth.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// UserEmailFromContext fetches the user email set by RequireAuth.
func UserEmailFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userEmailKey)
	if email, ok := val.(string); ok {
		return email
	}
	return ""
}
