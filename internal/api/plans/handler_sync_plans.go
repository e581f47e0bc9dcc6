package plans

import (
	"net/http"

	"ooya-dx/internal/domain/plans"
	"ooya-dx/internal/infra/stripeapi"
	"ooya-dx/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"go.uber.org/zap"
)

type Handler struct {
	store     *plans.Store
	gateway   stripeapi.Gateway
	productID string
	log       *zap.Logger
}

func NewHandler(store *plans.Store, gateway stripeapi.Gateway, productID string, log *zap.Logger) *Handler {
	if log == nil {
		log = logger.L()
	}
	return &Handler{store: store, gateway: gateway, productID: productID, log: log.Named("plans")}
}

// SyncPlansFromStripe mirrors the product's recurring JPY prices into the
// plans table. Prices that disappeared from Stripe are deactivated, never
// deleted, since subscriptions may still reference them.
func (h *Handler) SyncPlansFromStripe(c *gin.Context) {
	prices, err := h.gateway.ListRecurringPrices(c.Request.Context(), h.productID)
	if err != nil {
		h.log.Error("list stripe prices failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch Stripe prices"})
		return
	}

	var (
		created, updated, skipped int
		kept                      []string
	)
	for _, p := range prices {
		plan, ok := planFromPrice(p)
		if !ok {
			skipped++
			continue
		}
		isNew, err := h.store.Upsert(c.Request.Context(), plan)
		if err != nil {
			h.log.Error("plan upsert failed", zap.String("price_id", p.ID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store plan"})
			return
		}
		if isNew {
			created++
		} else {
			updated++
		}
		kept = append(kept, plan.StripePriceID)
	}

	deactivated, err := h.store.DeactivateOthers(c.Request.Context(), h.productID, kept)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate stale plans"})
		return
	}

	h.log.Info("plans synced",
		zap.Int("created", created), zap.Int("updated", updated),
		zap.Int("skipped", skipped), zap.Int64("deactivated", deactivated))

	c.JSON(http.StatusOK, gin.H{
		"synced":      created + updated,
		"created":     created,
		"updated":     updated,
		"skipped":     skipped,
		"deactivated": deactivated,
	})
}

func (h *Handler) ListPlans(c *gin.Context) {
	list, err := h.store.ListActive(c.Request.Context(), h.productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plans"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// planFromPrice keeps only active, visible, recurring JPY prices. JPY is a
// zero-decimal currency, so UnitAmount is already in yen.
func planFromPrice(p *stripe.Price) (*plans.Plan, bool) {
	if p == nil || !p.Active || p.Recurring == nil || p.Product == nil {
		return nil, false
	}
	if p.Currency != stripe.CurrencyJPY {
		return nil, false
	}
	if p.Metadata["visible"] == "false" {
		return nil, false
	}

	name := p.Product.Name
	if v := p.Metadata["plan"]; v != "" {
		name = v
	} else if p.Nickname != "" {
		name = p.Nickname
	}

	return &plans.Plan{
		Name:            name,
		PriceJPY:        p.UnitAmount,
		StripePriceID:   p.ID,
		StripeProductID: p.Product.ID,
		Interval:        string(p.Recurring.Interval),
		Active:          true,
	}, true
}
