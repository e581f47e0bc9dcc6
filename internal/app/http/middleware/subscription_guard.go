package middleware

import (
	"errors"
	"net/http"
	"time"

	"ooya-dx/internal/domain/access"
	"ooya-dx/internal/domain/subscriptions"

	"github.com/gin-gonic/gin"
)

// RequireActiveSubscription lets the request through only while the caller's
// subscription unlocks the dashboard (active, trialing, or canceled but still
// paid through). Everyone else gets 402 with the computed state.
func RequireActiveSubscription(store *subscriptions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
			return
		}

		sub, err := store.FindByUserID(c.Request.Context(), userID)
		if err != nil && !errors.Is(err, subscriptions.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscription"})
			return
		}

		state := access.Compute(time.Now(), sub)
		c.Set("access_state", string(state))
		if !state.Unlocked() {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
				"error": "An active subscription is required",
				"state": state,
			})
			return
		}

		c.Next()
	}
}
