package admin

import (
	"errors"
	"net/http"
	"time"

	"ooya-dx/internal/domain/billing"
	"ooya-dx/internal/domain/subscriptions"
	"ooya-dx/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminUser struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Role             string     `json:"role"`
	AuthProvider     string     `json:"auth_provider"`
	Status           string     `json:"status"`
	StripeCustomerID *string    `json:"stripe_customer_id,omitempty"`
	StripeSubID      *string    `json:"stripe_subscription_id,omitempty"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

type AdminStats struct {
	TotalUsers       int64            `json:"total_users"`
	TotalRevenueJPY  int64            `json:"total_revenue_jpy"`
	RecentRevenueJPY int64            `json:"recent_revenue_jpy"`
	ByStatus         map[string]int64 `json:"subscriptions_by_status"`
}

type Handler struct {
	db       *gorm.DB
	subs     *subscriptions.Store
	payments *billing.PaymentStore
	now      func() time.Time
}

func NewHandler(db *gorm.DB, subs *subscriptions.Store, payments *billing.PaymentStore) *Handler {
	return &Handler{db: db, subs: subs, payments: payments, now: time.Now}
}

// ListAllUsers serves GET /api/admin/users.
func (h *Handler) ListAllUsers(c *gin.Context) {
	ctx := c.Request.Context()
	list, err := users.List(ctx, h.db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}
	subs, err := h.subs.List(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscriptions"})
		return
	}
	byUser := make(map[string]*subscriptions.Subscription, len(subs))
	for i := range subs {
		byUser[subs[i].UserID] = &subs[i]
	}

	out := make([]AdminUser, 0, len(list))
	for _, u := range list {
		row := AdminUser{
			ID:           u.ID,
			Name:         u.Name,
			Email:        u.Email,
			Role:         u.Role,
			AuthProvider: u.AuthProvider,
			Status:       subscriptions.StatusNone.Display(),
			CreatedAt:    u.CreatedAt,
		}
		if s, ok := byUser[u.ID]; ok {
			row.Status = s.Status.Display()
			row.StripeCustomerID = s.StripeCustomerID
			row.StripeSubID = s.StripeSubscriptionID
			row.CurrentPeriodEnd = s.CurrentPeriodEnd
		}
		out = append(out, row)
	}

	c.JSON(http.StatusOK, out)
}

// ListAllSubscriptions serves GET /api/admin/subscriptions.
func (h *Handler) ListAllSubscriptions(c *gin.Context) {
	subs, err := h.subs.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscriptions"})
		return
	}
	c.JSON(http.StatusOK, subs)
}

// GetAdminStats serves GET /api/admin/stats.
func (h *Handler) GetAdminStats(c *gin.Context) {
	ctx := c.Request.Context()
	var stats AdminStats
	var err error

	if stats.TotalUsers, err = users.Count(ctx, h.db); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
		return
	}

	counts, err := h.subs.CountByStatus(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count subscriptions"})
		return
	}
	stats.ByStatus = make(map[string]int64, len(counts))
	for status, n := range counts {
		stats.ByStatus[string(status)] = n
	}

	if stats.TotalRevenueJPY, err = h.payments.Revenue(ctx, nil); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sum revenue"})
		return
	}
	thirtyDaysAgo := h.now().AddDate(0, 0, -30)
	if stats.RecentRevenueJPY, err = h.payments.Revenue(ctx, &thirtyDaysAgo); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sum revenue"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetUserDetails serves GET /api/admin/users/:id.
func (h *Handler) GetUserDetails(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("id")

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

	payments, err := h.payments.ListByUser(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"subscription": sub,
		"payments":     payments,
	})
}
