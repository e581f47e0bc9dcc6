package users

import (
	"errors"
	"net/http"
	"time"

	"ooya-dx/internal/domain/access"
	"ooya-dx/internal/domain/plans"
	"ooya-dx/internal/domain/subscriptions"
	"ooya-dx/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	db    *gorm.DB
	subs  *subscriptions.Store
	plans *plans.Store
}

func NewHandler(db *gorm.DB, subs *subscriptions.Store, plans *plans.Store) *Handler {
	return &Handler{db: db, subs: subs, plans: plans}
}

// GetCurrentUser serves GET /api/me.
func (h *Handler) GetCurrentUser(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	ctx := c.Request.Context()

	user, err := users.FindByID(ctx, h.db, userID)
	if errors.Is(err, users.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	sub, err := h.subs.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, subscriptions.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscription"})
		return
	}

	resp := MeResponse{
		User: UserDTO{
			ID:           user.ID,
			Email:        user.Email,
			Name:         user.Name,
			Role:         user.Role,
			AuthProvider: user.AuthProvider,
			CreatedAt:    user.CreatedAt,
		},
		Billing: BillingDTO{
			Subscription: buildSubscriptionDTO(sub),
		},
		Access: access.ComputePolicy(time.Now(), sub),
	}
	if sub != nil && sub.StripePriceID != nil {
		if p, err := h.plans.FindByPriceID(ctx, *sub.StripePriceID); err == nil {
			resp.Billing.Plan = buildPlanDTO(p)
		}
	}

	c.JSON(http.StatusOK, resp)
}

func buildPlanDTO(p *plans.Plan) *PlanDTO {
	if p == nil {
		return nil
	}
	return &PlanDTO{
		ID:            p.ID,
		Name:          p.Name,
		Interval:      p.Interval,
		PriceJPY:      p.PriceJPY,
		StripePriceID: p.StripePriceID,
	}
}

func buildSubscriptionDTO(s *subscriptions.Subscription) *SubscriptionDTO {
	if s == nil || s.StripeSubscriptionID == nil || *s.StripeSubscriptionID == "" {
		return nil
	}
	return &SubscriptionDTO{
		Status:               s.Status.Display(),
		RawStatus:            string(s.Status),
		CurrentPeriodEnd:     s.CurrentPeriodEnd,
		CancelAt:             s.CancelAt,
		CancelAtPeriodEnd:    s.CancelAtPeriodEnd,
		StripeSubscriptionID: s.StripeSubscriptionID,
	}
}
