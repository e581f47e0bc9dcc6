package billing

import (
	"errors"
	"net/http"
	"strconv"

	"ooya-dx/internal/domain/access"
	"ooya-dx/internal/domain/plans"
	"ooya-dx/internal/infra/stripeapi"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateCheckoutSession serves POST /api/billing/checkout.
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	var body struct {
		PriceID string `json:"price_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.PriceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid price_id"})
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	plan, err := h.plans.FindActiveByPriceID(ctx, body.PriceID)
	if errors.Is(err, plans.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan/price_id"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plan"})
		return
	}

	sub, ok := h.subscription(c, user.ID)
	if !ok {
		return
	}
	if sub != nil && sub.StripeSubscriptionID != nil && access.Compute(h.now(), sub) != access.StateLocked {
		c.JSON(http.StatusConflict, gin.H{"error": "Subscription already exists, use the billing portal to change it"})
		return
	}

	var customerID string
	if sub != nil && sub.StripeCustomerID != nil {
		customerID = *sub.StripeCustomerID
	}
	if customerID == "" {
		customerID, err = h.gateway.CreateCustomer(ctx, user.Email, user.ID)
		if err != nil {
			h.log.Error("create stripe customer failed", zap.String("user_id", user.ID), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create Stripe customer"})
			return
		}
		if err := h.subs.AttachCustomer(ctx, user.ID, customerID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store Stripe customer"})
			return
		}
	}

	url, err := h.gateway.CreateCheckoutSession(ctx, stripeapi.CheckoutParams{
		CustomerID: customerID,
		PriceID:    plan.StripePriceID,
		UserID:     user.ID,
		PlanID:     strconv.FormatUint(uint64(plan.ID), 10),
		SuccessURL: h.appURL + "/dashboard?checkout=success",
		CancelURL:  h.appURL + "/pricing?checkout=canceled",
	})
	if err != nil {
		h.log.Error("create checkout session failed", zap.String("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// CreateBillingPortal serves POST /api/billing/portal.
func (h *Handler) CreateBillingPortal(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	sub, ok := h.subscription(c, user.ID)
	if !ok {
		return
	}
	if sub == nil || sub.StripeCustomerID == nil || *sub.StripeCustomerID == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "No Stripe customer yet (subscribe first)"})
		return
	}

	url, err := h.gateway.CreatePortalSession(c.Request.Context(), *sub.StripeCustomerID, h.appURL+"/dashboard/billing")
	if err != nil {
		h.log.Error("create portal session failed", zap.String("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not create billing portal session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
