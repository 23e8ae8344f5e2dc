package middleware

import (
	"net/http"
	"strings"

	jwtdomain "github.com/Kavermo/StreamHive/core-service/internal/domain/auth/jwt"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const userIDKey = "authUserID"

// Auth authenticates the request from the access token (cookie or bearer
// header). Validation is signature+expiry only; no store lookup happens on
// this path.
func Auth(tm jwtdomain.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := resolveUser(c, tm)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		c.Set(userIDKey, uid)
		c.Next()
	}
}

// AuthOptional resolves the viewer identity when a valid access token is
// present and proceeds anonymously otherwise. Used by public read routes
// that personalize flags like isSubscribed/isLiked.
func AuthOptional(tm jwtdomain.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid, ok := resolveUser(c, tm); ok {
			c.Set(userIDKey, uid)
		}
		c.Next()
	}
}

// UserID returns the authenticated user id, or uuid.Nil for anonymous
// requests.
func UserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(userIDKey); ok {
		if uid, ok := v.(uuid.UUID); ok {
			return uid
		}
	}
	return uuid.Nil
}

func resolveUser(c *gin.Context, tm jwtdomain.TokenManager) (uuid.UUID, bool) {
	raw, err := c.Cookie("accessToken")
	if err != nil || raw == "" {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			raw = strings.TrimPrefix(header, "Bearer ")
		}
	}
	if raw == "" {
		return uuid.Nil, false
	}

	claims, err := tm.ValidateAccessToken(raw)
	if err != nil {
		return uuid.Nil, false
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, false
	}
	return uid, true
}
