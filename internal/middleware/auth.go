package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pixeltrack/api/internal/config"
	"pixeltrack/api/internal/models"
	"pixeltrack/api/internal/security"
)

// CurrentUserKey is where Auth stores the resolved caller.
const CurrentUserKey = "current_user"

type UserResolver interface {
	FindByAccountName(ctx context.Context, accountName string) (models.User, error)
}

// Auth verifies the bearer token and re-resolves its subject to a live
// user row on every call. A valid token for a soft-deleted account is
// rejected; authorization follows account state, not token issuance.
func Auth(sec config.SecurityConfig, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid authentication credentials"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		accountName, err := security.ParseToken(sec.TokenSecret, tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid authentication credentials"})
			return
		}

		user, err := users.FindByAccountName(c.Request.Context(), accountName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid authentication credentials"})
			return
		}

		if !user.State.Active() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "user is not active"})
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}
