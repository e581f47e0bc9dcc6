package stripewebhooks

import (
	"context"

	"ooya-dx/internal/domain/subscriptions"

	"github.com/stripe/stripe-go/v75"
)

// handleSubscriptionEvent covers every customer.subscription.* event. The
// payload is kept as a fallback for when Stripe cannot be reached.
func (h *Handler) handleSubscriptionEvent(ctx context.Context, eventType string, sub *stripe.Subscription) error {
	if sub.ID == "" {
		return errMalformed
	}

	t := target{
		subscriptionID: sub.ID,
		payload:        sub,
	}
	if eventType == "customer.subscription.deleted" {
		t.status = subscriptions.StatusCanceled
	}

	_, err := h.reconcile(ctx, t)
	return err
}
