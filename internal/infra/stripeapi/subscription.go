package stripeapi

import (
	"time"

	"github.com/stripe/stripe-go/v75"
)

// UnixTime converts a Stripe timestamp; zero means "not set".
func UnixTime(v int64) *time.Time {
	if v <= 0 {
		return nil
	}
	t := time.Unix(v, 0).UTC()
	return &t
}

func PeriodEnd(sub *stripe.Subscription) *time.Time {
	if sub == nil {
		return nil
	}
	return UnixTime(sub.CurrentPeriodEnd)
}

func CustomerID(sub *stripe.Subscription) string {
	if sub == nil || sub.Customer == nil {
		return ""
	}
	return sub.Customer.ID
}

func PriceID(sub *stripe.Subscription) string {
	if sub == nil || sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return ""
	}
	return sub.Items.Data[0].Price.ID
}

func MetadataUserID(md map[string]string) string {
	if md == nil {
		return ""
	}
	if v := md["user_id"]; v != "" {
		return v
	}
	return md["userId"]
}
