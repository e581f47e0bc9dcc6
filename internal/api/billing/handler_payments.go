package billing

import (
	"net/http"

	"ooya-dx/internal/domain/access"

	"github.com/gin-gonic/gin"
)

// GetSubscription serves GET /api/billing/subscription.
func (h *Handler) GetSubscription(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}
	sub, ok := h.subscription(c, userID)
	if !ok {
		return
	}
	if sub == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscription": sub,
		"display":      sub.Status.Display(),
		"access":       access.ComputePolicy(h.now(), sub),
	})
}

// GetPaymentHistory serves GET /api/billing/payments, newest first.
func (h *Handler) GetPaymentHistory(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	payments, err := h.payments.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
