// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements bearer-token authentication. Auth() verifies the
// Authorization header against the token issuer and stores the subject user
// ID in the Gin context for handlers, the rate limiter, and the
// idempotency validator.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// userIDKey is the Gin context key under which the authenticated user ID is
// stored.
const userIDKey = "userID"

// TokenVerifier validates a bearer token and returns the user ID it was
// issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserID returns the authenticated user ID set by Auth. The second return
// value reports presence.
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// Auth returns a Gin middleware that requires a valid "Bearer <token>"
// Authorization header. Failures produce a 401 with the standard error
// envelope; the request never reaches the handler.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if header == "" || token == "" || token == header {
			unauthorized(c, "missing bearer token")
			return
		}

		userID, err := verifier.Verify(token)
		if err != nil {
			unauthorized(c, "invalid token")
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       "unauthorized",
		"message":    msg,
	})
}
