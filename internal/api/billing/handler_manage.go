package billing

import (
	"errors"
	"net/http"

	"ooya-dx/internal/domain/plans"
	"ooya-dx/internal/domain/subscriptions"
	"ooya-dx/internal/infra/stripeapi"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"go.uber.org/zap"
)

// CancelSubscription serves POST /api/billing/cancel. The subscription keeps
// running until the end of the paid period.
func (h *Handler) CancelSubscription(c *gin.Context) {
	h.setCancelAtPeriodEnd(c, true)
}

// ResumeSubscription serves POST /api/billing/resume and undoes a pending
// cancellation.
func (h *Handler) ResumeSubscription(c *gin.Context) {
	h.setCancelAtPeriodEnd(c, false)
}

func (h *Handler) setCancelAtPeriodEnd(c *gin.Context, cancel bool) {
	sub, ok := h.stripeSubscription(c)
	if !ok {
		return
	}
	if sub.CancelAtPeriodEnd == cancel {
		c.JSON(http.StatusOK, gin.H{"subscription": sub})
		return
	}

	updated, err := h.gateway.SetCancelAtPeriodEnd(c.Request.Context(), *sub.StripeSubscriptionID, cancel)
	if err != nil {
		h.log.Error("update cancel_at_period_end failed",
			zap.String("subscription_id", *sub.StripeSubscriptionID), zap.Bool("cancel", cancel), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to update subscription in Stripe"})
		return
	}
	h.mirror(c, sub, updated)
}

// ChangePlan serves POST /api/billing/change-plan {price_id}. The price swap
// is prorated by Stripe; the webhook settles the final state.
func (h *Handler) ChangePlan(c *gin.Context) {
	var body struct {
		PriceID string `json:"price_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.PriceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid price_id"})
		return
	}

	plan, err := h.plans.FindActiveByPriceID(c.Request.Context(), body.PriceID)
	if errors.Is(err, plans.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan/price_id"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plan"})
		return
	}

	sub, ok := h.stripeSubscription(c)
	if !ok {
		return
	}
	if sub.StripePriceID != nil && *sub.StripePriceID == plan.StripePriceID {
		c.JSON(http.StatusOK, gin.H{"message": "Already on this plan", "subscription": sub})
		return
	}

	updated, err := h.gateway.ChangePrice(c.Request.Context(), *sub.StripeSubscriptionID, plan.StripePriceID)
	if err != nil {
		h.log.Error("change price failed",
			zap.String("subscription_id", *sub.StripeSubscriptionID), zap.String("price_id", plan.StripePriceID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to change plan in Stripe"})
		return
	}
	h.mirror(c, sub, updated)
}

// stripeSubscription loads the caller's row and requires it to be linked to
// a Stripe subscription.
func (h *Handler) stripeSubscription(c *gin.Context) (*subscriptions.Subscription, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return nil, false
	}
	sub, ok := h.subscription(c, userID)
	if !ok {
		return nil, false
	}
	if sub == nil || sub.StripeSubscriptionID == nil || *sub.StripeSubscriptionID == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No subscription"})
		return nil, false
	}
	return sub, true
}

// mirror writes what Stripe returned onto the local row and responds with it.
func (h *Handler) mirror(c *gin.Context, local *subscriptions.Subscription, remote *stripe.Subscription) {
	local.Status = subscriptions.ParseStatus(string(remote.Status))
	local.CancelAtPeriodEnd = remote.CancelAtPeriodEnd
	local.CancelAt = stripeapi.UnixTime(remote.CancelAt)
	if end := stripeapi.PeriodEnd(remote); end != nil {
		local.CurrentPeriodEnd = end
	}
	if price := stripeapi.PriceID(remote); price != "" {
		local.StripePriceID = &price
	}

	if _, err := h.subs.UpdateBySubscriptionID(c.Request.Context(), *local.StripeSubscriptionID, local.MirrorFields()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store subscription"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": local})
}
