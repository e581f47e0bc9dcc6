package billing

import "time"

// Payment is one Stripe invoice outcome for a user.
type Payment struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	UserID               *string   `gorm:"type:varchar(36);index" json:"user_id"`
	StripeInvoiceID      string    `gorm:"column:stripe_invoice_id;not null;uniqueIndex" json:"stripe_invoice_id"`
	StripeSubscriptionID *string   `gorm:"column:stripe_subscription_id;index" json:"stripe_subscription_id"`
	StripeCustomerID     *string   `gorm:"column:stripe_customer_id" json:"stripe_customer_id"`
	AmountJPY            int64     `json:"amount_jpy"`
	Currency             string    `json:"currency"`
	Status               string    `json:"status"` // paid | failed
	HostedInvoiceURL     *string   `json:"hosted_invoice_url"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

const (
	PaymentPaid   = "paid"
	PaymentFailed = "failed"
)
