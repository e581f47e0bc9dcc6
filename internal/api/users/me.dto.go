package users

import (
	"time"

	"ooya-dx/internal/domain/access"
)

type MeResponse struct {
	User    UserDTO       `json:"user"`
	Billing BillingDTO    `json:"billing"`
	Access  access.Policy `json:"access"`
}

type UserDTO struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	AuthProvider string    `json:"auth_provider"`
	CreatedAt    time.Time `json:"created_at"`
}

type BillingDTO struct {
	Plan         *PlanDTO         `json:"plan"`
	Subscription *SubscriptionDTO `json:"subscription"`
}

type PlanDTO struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Interval      string `json:"interval"`
	PriceJPY      int64  `json:"price_jpy"`
	StripePriceID string `json:"stripe_price_id"`
}

type SubscriptionDTO struct {
	Status               string     `json:"status"`
	RawStatus            string     `json:"raw_status"`
	CurrentPeriodEnd     *time.Time `json:"current_period_end"`
	CancelAt             *time.Time `json:"cancel_at"`
	CancelAtPeriodEnd    bool       `json:"cancel_at_period_end"`
	StripeSubscriptionID *string    `json:"stripe_subscription_id"`
}
