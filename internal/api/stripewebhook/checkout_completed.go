package stripewebhooks

import (
	"context"

	"ooya-dx/internal/infra/stripeapi"

	"github.com/stripe/stripe-go/v75"
)

func (h *Handler) handleCheckoutSessionCompleted(ctx context.Context, session *stripe.CheckoutSession) error {
	if session.Mode != stripe.CheckoutSessionModeSubscription || session.Subscription == nil || session.Subscription.ID == "" {
		return errIgnored
	}

	userID := session.ClientReferenceID
	if userID == "" {
		userID = stripeapi.MetadataUserID(session.Metadata)
	}

	t := target{
		subscriptionID: session.Subscription.ID,
		userID:         userID,
	}
	if session.Customer != nil {
		t.customerID = session.Customer.ID
	}

	_, err := h.reconcile(ctx, t)
	return err
}
