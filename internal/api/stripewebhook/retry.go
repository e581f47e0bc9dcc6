package stripewebhooks

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ooya-dx/internal/infra/stripeapi"
	"ooya-dx/internal/metrics"

	"github.com/cenkalti/backoff/v4"
	"github.com/stripe/stripe-go/v75"
)

// RetryPolicy is a fixed-interval re-poll schedule.
type RetryPolicy struct {
	Interval   time.Duration
	MaxRetries uint64
}

var (
	// DefaultRetryPolicy covers Stripe's usual propagation delay right after
	// checkout: one read plus 4 retries, 700ms apart.
	DefaultRetryPolicy = RetryPolicy{Interval: 700 * time.Millisecond, MaxRetries: 4}

	// DefaultBackfillPolicy is the slower secondary loop for current_period_end.
	DefaultBackfillPolicy = RetryPolicy{Interval: 1500 * time.Millisecond, MaxRetries: 7}
)

var errPeriodEndMissing = errors.New("current_period_end not yet available")

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOffContext {
	return backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Interval), p.MaxRetries),
		ctx,
	)
}

// fetchSettled reads the subscription until it carries current_period_end or
// the retry budget runs out. The last successfully read object is returned
// even when the period end never showed up; the caller decides on backfill.
func (h *Handler) fetchSettled(ctx context.Context, subscriptionID string) (*stripe.Subscription, error) {
	return pollSubscription(ctx, h.fetcher, subscriptionID, h.retry)
}

func pollSubscription(ctx context.Context, fetcher stripeapi.SubscriptionFetcher, subscriptionID string, policy RetryPolicy) (*stripe.Subscription, error) {
	var last *stripe.Subscription
	attempt := 0

	op := func() error {
		if attempt > 0 {
			metrics.FetchRetries.Inc()
		}
		attempt++

		sub, err := fetcher.GetSubscription(ctx, subscriptionID)
		if err != nil {
			var serr *stripe.Error
			if errors.As(err, &serr) && serr.HTTPStatusCode == http.StatusNotFound {
				return backoff.Permanent(err)
			}
			return err
		}
		last = sub
		if sub.CurrentPeriodEnd == 0 {
			return errPeriodEndMissing
		}
		return nil
	}

	err := backoff.Retry(op, policy.backOff(ctx))
	if last != nil {
		return last, nil
	}
	return nil, err
}
