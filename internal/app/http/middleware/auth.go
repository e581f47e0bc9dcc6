package middleware

import (
	"errors"
	"net/http"
	"strings"

	"ooya-dx/internal/domain/users"
	"ooya-dx/internal/infra/identity"
	"ooya-dx/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthMiddleware verifies the bearer token with the configured provider and
// puts user_id, email and role on the context. Users managed by an external
// provider get a local row on first sight.
func AuthMiddleware(provider identity.Provider, db *gorm.DB, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.L()
	}
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == authHeader || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Bearer token malformed"})
			return
		}

		id, err := provider.Verify(c.Request.Context(), tokenString)
		if err != nil {
			log.Debug("token rejected", zap.String("provider", provider.Name()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		if id.Provider != identity.ProviderNeon && db != nil {
			u := &users.User{
				ID:           id.UserID,
				Email:        id.Email,
				Name:         id.Name,
				Role:         id.Role,
				AuthProvider: id.Provider,
			}
			if err := users.EnsureUser(db.WithContext(c.Request.Context()), u); err != nil {
				if errors.Is(err, users.ErrEmailInUse) {
					log.Warn("identity email already owned by another user", zap.String("user_id", id.UserID), zap.String("email", id.Email))
					c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Email is already registered to another account"})
					return
				}
				log.Error("ensure user failed", zap.String("user_id", id.UserID), zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
				return
			}
		}

		c.Set("user_id", id.UserID)
		c.Set("email", id.Email)
		c.Set("role", id.Role)
		c.Next()
	}
}

func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Role not found in token"})
			return
		}

		if value != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}

		c.Next()
	}
}
