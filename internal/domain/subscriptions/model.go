package subscriptions

import "time"

// Subscription mirrors the Stripe subscription state for one user.
type Subscription struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	UserID               string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_subscriptions_user_id" json:"user_id"`
	StripeCustomerID     *string    `gorm:"column:stripe_customer_id;index" json:"stripe_customer_id"`
	StripeSubscriptionID *string    `gorm:"column:stripe_subscription_id;uniqueIndex:idx_subscriptions_stripe_subscription_id" json:"stripe_subscription_id"`
	StripePriceID        *string    `gorm:"column:stripe_price_id" json:"stripe_price_id"`
	Status               Status     `gorm:"type:varchar(32);not null;default:'none'" json:"status"`
	CurrentPeriodEnd     *time.Time `gorm:"column:current_period_end" json:"current_period_end"`
	CancelAt             *time.Time `gorm:"column:cancel_at" json:"cancel_at"`
	CancelAtPeriodEnd    bool       `gorm:"column:cancel_at_period_end;not null;default:false" json:"cancel_at_period_end"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasAccess reports whether the subscription currently unlocks the dashboard.
// A canceled subscription keeps access until the paid-through period ends.
func (s *Subscription) HasAccess(now time.Time) bool {
	if s == nil {
		return false
	}
	switch s.Status {
	case StatusActive, StatusTrialing:
		return true
	case StatusCanceled:
		return s.CurrentPeriodEnd != nil && now.Before(*s.CurrentPeriodEnd)
	default:
		return false
	}
}
