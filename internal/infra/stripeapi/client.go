package stripeapi

import (
	"context"

	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/client"
)

// SubscriptionFetcher reads the authoritative subscription object from Stripe.
type SubscriptionFetcher interface {
	GetSubscription(ctx context.Context, id string) (*stripe.Subscription, error)
}

// Client wraps a per-key Stripe API client instead of the package-level
// stripe.Key, so handlers can be constructed with their own credentials.
type Client struct {
	api *client.API
}

func New(secretKey string) *Client {
	return &Client{api: client.New(secretKey, nil)}
}

func (c *Client) API() *client.API {
	return c.api
}

func (c *Client) GetSubscription(ctx context.Context, id string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	return c.api.Subscriptions.Get(id, params)
}
