package plans

type Plan struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `json:"name"`
	PriceJPY        int64  `json:"price_jpy"`
	StripePriceID   string `gorm:"column:stripe_price_id;not null;uniqueIndex:idx_plans_stripe_price_id" json:"stripe_price_id"`
	StripeProductID string `gorm:"column:stripe_product_id;index" json:"stripe_product_id"`
	Interval        string `json:"interval"` // month | year
	Active          bool   `gorm:"not null;default:true" json:"active"`
}
