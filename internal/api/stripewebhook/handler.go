package stripewebhooks

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"ooya-dx/internal/domain/billing"
	"ooya-dx/internal/domain/subscriptions"
	"ooya-dx/internal/infra/stripeapi"
	"ooya-dx/internal/metrics"
	"ooya-dx/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
	"go.uber.org/zap"
)

const maxBodyBytes = 65536

var errUnreadableBody = errors.New("unreadable webhook body")

// Handler reconciles Stripe webhook deliveries into the local subscription
// mirror. Handled events re-read the subscription from Stripe because event
// payloads can be stale or incomplete.
type Handler struct {
	secret   string
	fetcher  stripeapi.SubscriptionFetcher
	store    *subscriptions.Store
	payments *billing.PaymentStore
	backfill *Backfiller
	retry    RetryPolicy
	log      *zap.Logger
}

type Options struct {
	Secret   string
	Fetcher  stripeapi.SubscriptionFetcher
	Store    *subscriptions.Store
	Payments *billing.PaymentStore
	Backfill *Backfiller
	Retry    RetryPolicy
	Log      *zap.Logger
}

func NewHandler(opts Options) *Handler {
	if opts.Retry == (RetryPolicy{}) {
		opts.Retry = DefaultRetryPolicy
	}
	if opts.Log == nil {
		opts.Log = logger.L()
	}
	return &Handler{
		secret:   opts.Secret,
		fetcher:  opts.Fetcher,
		store:    opts.Store,
		payments: opts.Payments,
		backfill: opts.Backfill,
		retry:    opts.Retry,
		log:      opts.Log.Named("stripe-webhook"),
	}
}

// Handle serves POST /api/stripe/webhook.
func (h *Handler) Handle(c *gin.Context) {
	if h.secret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_WEBHOOK_SECRET not configured"})
		return
	}

	payload, err := readStripeBody(c, maxBodyBytes)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errUnreadableBody.Error()})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		h.secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		h.log.Warn("signature verification failed", zap.Error(err))
		metrics.WebhookEvents.WithLabelValues("unknown", "bad_signature").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	eventType := string(event.Type)
	log := h.log.With(zap.String("event_id", event.ID), zap.String("type", eventType))

	err = h.dispatch(c, eventType, &event)
	switch {
	case errors.Is(err, errIgnored):
		metrics.WebhookEvents.WithLabelValues(eventType, "ignored").Inc()
		log.Debug("event ignored")
		c.JSON(http.StatusOK, gin.H{"received": true})
	case errors.Is(err, errMalformed):
		metrics.WebhookEvents.WithLabelValues(eventType, "malformed").Inc()
		log.Warn("malformed event payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed event payload"})
	case err != nil:
		metrics.WebhookEvents.WithLabelValues(eventType, "error").Inc()
		log.Error("webhook handling failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook handler failed"})
	default:
		metrics.WebhookEvents.WithLabelValues(eventType, "ok").Inc()
		log.Info("event reconciled")
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

var (
	errIgnored   = errors.New("event ignored")
	errMalformed = errors.New("malformed event")
)

func (h *Handler) dispatch(c *gin.Context, eventType string, event *stripe.Event) error {
	ctx := c.Request.Context()

	switch {
	case eventType == "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return errors.Join(errMalformed, err)
		}
		return h.handleCheckoutSessionCompleted(ctx, &session)

	case strings.HasPrefix(eventType, "customer.subscription."):
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return errors.Join(errMalformed, err)
		}
		return h.handleSubscriptionEvent(ctx, eventType, &sub)

	case eventType == "invoice.payment_succeeded", eventType == "invoice.payment_failed":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return errors.Join(errMalformed, err)
		}
		return h.handleInvoicePayment(ctx, eventType, &inv)

	default:
		return errIgnored
	}
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
