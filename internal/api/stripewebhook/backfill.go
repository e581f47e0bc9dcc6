package stripewebhooks

import (
	"context"
	"errors"
	"sync"
	"time"

	"ooya-dx/internal/domain/subscriptions"
	"ooya-dx/internal/infra/stripeapi"
	"ooya-dx/internal/metrics"
	"ooya-dx/internal/pkg/logger"

	"go.uber.org/zap"
)

// Backfiller patches current_period_end for subscriptions Stripe had not
// finished populating when the webhook arrived. Loops run in the background,
// at most one per subscription ID, bound to the backfiller's own lifetime
// rather than the originating request.
type Backfiller struct {
	fetcher stripeapi.SubscriptionFetcher
	store   *subscriptions.Store
	policy  RetryPolicy
	log     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewBackfiller(fetcher stripeapi.SubscriptionFetcher, store *subscriptions.Store, policy RetryPolicy, log *zap.Logger) *Backfiller {
	if policy == (RetryPolicy{}) {
		policy = DefaultBackfillPolicy
	}
	if log == nil {
		log = logger.L()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Backfiller{
		fetcher:  fetcher,
		store:    store,
		policy:   policy,
		log:      log.Named("backfill"),
		ctx:      ctx,
		cancel:   cancel,
		inflight: make(map[string]struct{}),
	}
}

// Schedule starts a backfill loop unless one is already running for the
// subscription or the backfiller has been shut down.
func (b *Backfiller) Schedule(subscriptionID string) bool {
	if subscriptionID == "" {
		return false
	}

	b.mu.Lock()
	if b.ctx.Err() != nil {
		b.mu.Unlock()
		return false
	}
	if _, busy := b.inflight[subscriptionID]; busy {
		b.mu.Unlock()
		return false
	}
	b.inflight[subscriptionID] = struct{}{}
	b.wg.Add(1)
	b.mu.Unlock()

	go func() {
		defer b.wg.Done()
		defer b.release(subscriptionID)
		b.run(subscriptionID)
	}()
	return true
}

func (b *Backfiller) run(subscriptionID string) {
	log := b.log.With(zap.String("subscription_id", subscriptionID))

	timer := time.NewTimer(b.policy.Interval)
	defer timer.Stop()
	select {
	case <-b.ctx.Done():
		metrics.Backfills.WithLabelValues("canceled").Inc()
		return
	case <-timer.C:
	}

	sub, err := pollSubscription(b.ctx, b.fetcher, subscriptionID, b.policy)
	if err != nil || sub == nil {
		metrics.Backfills.WithLabelValues("fetch_failed").Inc()
		log.Warn("backfill gave up, subscription unreadable", zap.Error(err))
		return
	}

	periodEnd := stripeapi.PeriodEnd(sub)
	if periodEnd == nil {
		metrics.Backfills.WithLabelValues("exhausted").Inc()
		log.Warn("backfill gave up, current_period_end still missing")
		return
	}

	if err := b.store.PatchPeriodEnd(b.ctx, subscriptionID, *periodEnd); err != nil {
		if errors.Is(err, subscriptions.ErrNotFound) {
			metrics.Backfills.WithLabelValues("no_row").Inc()
			log.Warn("backfill found no local row to patch")
			return
		}
		metrics.Backfills.WithLabelValues("error").Inc()
		log.Error("backfill patch failed", zap.Error(err))
		return
	}

	metrics.Backfills.WithLabelValues("patched").Inc()
	log.Info("current_period_end backfilled", zap.Time("current_period_end", *periodEnd))
}

func (b *Backfiller) release(subscriptionID string) {
	b.mu.Lock()
	delete(b.inflight, subscriptionID)
	b.mu.Unlock()
}

// Wait blocks until every scheduled loop has finished.
func (b *Backfiller) Wait() {
	b.wg.Wait()
}

// Shutdown stops outstanding loops and waits for them, or for ctx.
func (b *Backfiller) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	b.cancel()
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
