package billing

import (
	"errors"
	"net/http"
	"time"

	"ooya-dx/internal/domain/billing"
	"ooya-dx/internal/domain/plans"
	"ooya-dx/internal/domain/subscriptions"
	"ooya-dx/internal/domain/users"
	"ooya-dx/internal/infra/stripeapi"
	"ooya-dx/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handler struct {
	db       *gorm.DB
	gateway  stripeapi.Gateway
	subs     *subscriptions.Store
	plans    *plans.Store
	payments *billing.PaymentStore
	appURL   string
	log      *zap.Logger
	now      func() time.Time
}

type Options struct {
	DB       *gorm.DB
	Gateway  stripeapi.Gateway
	Subs     *subscriptions.Store
	Plans    *plans.Store
	Payments *billing.PaymentStore
	AppURL   string
	Log      *zap.Logger
}

func NewHandler(opts Options) *Handler {
	if opts.Log == nil {
		opts.Log = logger.L()
	}
	if opts.AppURL == "" {
		opts.AppURL = "http://localhost:3000"
	}
	return &Handler{
		db:       opts.DB,
		gateway:  opts.Gateway,
		subs:     opts.Subs,
		plans:    opts.Plans,
		payments: opts.Payments,
		appURL:   opts.AppURL,
		log:      opts.Log.Named("billing"),
		now:      time.Now,
	}
}

func (h *Handler) currentUser(c *gin.Context) (*users.User, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return nil, false
	}
	u, err := users.FindByID(c.Request.Context(), h.db, userID)
	if errors.Is(err, users.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return nil, false
	}
	return u, true
}

// subscription returns the caller's row, or nil when there is none yet.
func (h *Handler) subscription(c *gin.Context, userID string) (*subscriptions.Subscription, bool) {
	sub, err := h.subs.FindByUserID(c.Request.Context(), userID)
	if errors.Is(err, subscriptions.ErrNotFound) {
		return nil, true
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscription"})
		return nil, false
	}
	return sub, true
}
