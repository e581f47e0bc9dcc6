package stripewebhooks

import (
	"context"

	"ooya-dx/internal/domain/billing"

	"github.com/stripe/stripe-go/v75"
)

func (h *Handler) handleInvoicePayment(ctx context.Context, eventType string, inv *stripe.Invoice) error {
	if inv.ID == "" {
		return errMalformed
	}

	var (
		userID         string
		subscriptionID *string
		customerID     *string
	)
	if inv.Customer != nil && inv.Customer.ID != "" {
		customerID = stripe.String(inv.Customer.ID)
	}

	if inv.Subscription != nil && inv.Subscription.ID != "" {
		subscriptionID = stripe.String(inv.Subscription.ID)
		t := target{subscriptionID: inv.Subscription.ID}
		if customerID != nil {
			t.customerID = *customerID
		}
		uid, err := h.reconcile(ctx, t)
		if err != nil {
			return err
		}
		userID = uid
	}

	if h.payments == nil {
		return nil
	}

	p := &billing.Payment{
		StripeInvoiceID:      inv.ID,
		StripeSubscriptionID: subscriptionID,
		StripeCustomerID:     customerID,
		Currency:             string(inv.Currency),
		Status:               billing.PaymentPaid,
		AmountJPY:            inv.AmountPaid,
	}
	if eventType == "invoice.payment_failed" {
		p.Status = billing.PaymentFailed
		p.AmountJPY = inv.AmountDue
	}
	if userID != "" {
		p.UserID = stripe.String(userID)
	}
	if inv.HostedInvoiceURL != "" {
		p.HostedInvoiceURL = stripe.String(inv.HostedInvoiceURL)
	}
	return h.payments.Record(ctx, p)
}
