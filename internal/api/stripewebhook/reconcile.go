package stripewebhooks

import (
	"context"
	"errors"
	"fmt"

	"ooya-dx/internal/domain/subscriptions"
	"ooya-dx/internal/infra/stripeapi"

	"github.com/stripe/stripe-go/v75"
	"go.uber.org/zap"
)

// target carries what an event already told us about the subscription.
type target struct {
	subscriptionID string
	userID         string
	customerID     string
	payload        *stripe.Subscription
	status         subscriptions.Status
}

// reconcile re-reads the subscription from Stripe and mirrors it locally.
// It returns the user the row belongs to, or "" when none could be resolved.
func (h *Handler) reconcile(ctx context.Context, t target) (string, error) {
	sub, err := h.fetchSettled(ctx, t.subscriptionID)
	if err != nil {
		if t.payload == nil {
			return "", fmt.Errorf("fetch subscription %s: %w", t.subscriptionID, err)
		}
		h.log.Warn("stripe fetch failed, using event payload",
			zap.String("subscription_id", t.subscriptionID), zap.Error(err))
		sub = t.payload
	}

	row := mirrorRow(sub, t)
	userID := h.resolveUserID(ctx, sub, t)
	log := h.log.With(zap.String("subscription_id", sub.ID), zap.String("status", string(row.Status)))

	if userID == "" {
		n, err := h.store.UpdateBySubscriptionID(ctx, sub.ID, row.MirrorFields())
		if err != nil {
			return "", err
		}
		if n == 0 {
			log.Warn("no local user for subscription, event acknowledged without write")
		}
	} else {
		stale, err := h.isStale(ctx, userID, row)
		if err != nil {
			return "", err
		}
		if stale {
			// The user's row tracks a newer live subscription. Only a row
			// keyed by this subscription ID may change.
			if _, err := h.store.UpdateBySubscriptionID(ctx, sub.ID, row.MirrorFields()); err != nil {
				return "", err
			}
			log.Info("stale subscription event, current subscription kept", zap.String("user_id", userID))
			return userID, nil
		}
		row.UserID = userID
		if err := h.store.Upsert(ctx, row); err != nil {
			return "", err
		}
	}

	if row.CurrentPeriodEnd == nil && needsPeriodEnd(row.Status) && h.backfill != nil {
		if h.backfill.Schedule(sub.ID) {
			log.Info("current_period_end missing, backfill scheduled")
		}
	}
	return userID, nil
}

func mirrorRow(sub *stripe.Subscription, t target) *subscriptions.Subscription {
	row := &subscriptions.Subscription{
		StripeSubscriptionID: stripe.String(sub.ID),
		Status:               subscriptions.ParseStatus(string(sub.Status)),
		CurrentPeriodEnd:     stripeapi.PeriodEnd(sub),
		CancelAt:             stripeapi.UnixTime(sub.CancelAt),
		CancelAtPeriodEnd:    sub.CancelAtPeriodEnd,
	}
	if t.status != "" {
		row.Status = t.status
	}

	customerID := stripeapi.CustomerID(sub)
	if customerID == "" {
		customerID = t.customerID
	}
	if customerID != "" {
		row.StripeCustomerID = stripe.String(customerID)
	}
	if priceID := stripeapi.PriceID(sub); priceID != "" {
		row.StripePriceID = stripe.String(priceID)
	}
	return row
}

// resolveUserID: subscription metadata, then the event's own hint (checkout
// client_reference_id), then rows we already know by subscription or customer.
func (h *Handler) resolveUserID(ctx context.Context, sub *stripe.Subscription, t target) string {
	if id := stripeapi.MetadataUserID(sub.Metadata); id != "" {
		return id
	}
	if t.userID != "" {
		return t.userID
	}
	if existing, err := h.store.FindBySubscriptionID(ctx, sub.ID); err == nil {
		return existing.UserID
	} else if !errors.Is(err, subscriptions.ErrNotFound) {
		h.log.Warn("lookup by subscription id failed", zap.Error(err))
	}

	customerID := stripeapi.CustomerID(sub)
	if customerID == "" {
		customerID = t.customerID
	}
	if customerID != "" {
		if existing, err := h.store.FindByCustomerID(ctx, customerID); err == nil {
			return existing.UserID
		}
	}
	return ""
}

// isStale reports whether row is a finished subscription that would
// overwrite the user's current live one.
func (h *Handler) isStale(ctx context.Context, userID string, row *subscriptions.Subscription) (bool, error) {
	if needsPeriodEnd(row.Status) {
		return false, nil
	}
	existing, err := h.store.FindByUserID(ctx, userID)
	if errors.Is(err, subscriptions.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if existing.StripeSubscriptionID == nil || *existing.StripeSubscriptionID == *row.StripeSubscriptionID {
		return false, nil
	}
	return needsPeriodEnd(existing.Status), nil
}

func needsPeriodEnd(s subscriptions.Status) bool {
	switch s {
	case subscriptions.StatusCanceled, subscriptions.StatusIncompleteExpired:
		return false
	default:
		return true
	}
}
