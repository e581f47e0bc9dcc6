//nolint:gochecknoglobals
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ooyadx",
		Subsystem: "stripe",
		Name:      "webhook_events_total",
		Help:      "Stripe webhook events by type and outcome.",
	}, []string{"type", "outcome"})

	FetchRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ooyadx",
		Subsystem: "stripe",
		Name:      "subscription_fetch_retries_total",
		Help:      "Re-polls of a Stripe subscription that was not yet propagated.",
	})

	Backfills = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ooyadx",
		Subsystem: "stripe",
		Name:      "period_end_backfills_total",
		Help:      "current_period_end backfill loops by outcome.",
	}, []string{"outcome"})

	ZipcodeLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ooyadx",
		Name:      "zipcode_lookups_total",
		Help:      "Postal-code lookups by source.",
	}, []string{"source"})
)
