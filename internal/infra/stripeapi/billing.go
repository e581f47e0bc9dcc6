package stripeapi

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v75"
)

type CheckoutParams struct {
	CustomerID string
	PriceID    string
	UserID     string
	PlanID     string
	SuccessURL string
	CancelURL  string
}

// Gateway is the part of the Stripe API the billing endpoints drive.
type Gateway interface {
	CreateCustomer(ctx context.Context, email, userID string) (string, error)
	CreateCheckoutSession(ctx context.Context, p CheckoutParams) (string, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	SetCancelAtPeriodEnd(ctx context.Context, subscriptionID string, cancel bool) (*stripe.Subscription, error)
	ChangePrice(ctx context.Context, subscriptionID, priceID string) (*stripe.Subscription, error)
	ListRecurringPrices(ctx context.Context, productID string) ([]*stripe.Price, error)
}

var errNoPriceItem = errors.New("subscription has no price item")

func (c *Client) CreateCustomer(ctx context.Context, email, userID string) (string, error) {
	params := &stripe.CustomerParams{
		Email:    stripe.String(email),
		Metadata: map[string]string{"user_id": userID},
	}
	params.Context = ctx
	cus, err := c.api.Customers.New(params)
	if err != nil {
		return "", err
	}
	return cus.ID, nil
}

// CreateCheckoutSession opens a subscription-mode Checkout. The user ID is
// written both as client_reference_id and into subscription metadata so the
// webhook can attribute the subscription whichever event arrives first.
func (c *Client) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (string, error) {
	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:   stripe.String(p.CustomerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(p.PriceID), Quantity: stripe.Int64(1)},
		},
		ClientReferenceID: stripe.String(p.UserID),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"user_id": p.UserID,
				"plan_id": p.PlanID,
			},
		},
	}
	params.Context = ctx
	s, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", err
	}
	return s.URL, nil
}

func (c *Client) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx
	s, err := c.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", err
	}
	return s.URL, nil
}

func (c *Client) SetCancelAtPeriodEnd(ctx context.Context, subscriptionID string, cancel bool) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionParams{CancelAtPeriodEnd: stripe.Bool(cancel)}
	params.Context = ctx
	return c.api.Subscriptions.Update(subscriptionID, params)
}

// ChangePrice swaps the subscription's only item to priceID, prorated.
func (c *Client) ChangePrice(ctx context.Context, subscriptionID, priceID string) (*stripe.Subscription, error) {
	sub, err := c.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return nil, errNoPriceItem
	}
	item := sub.Items.Data[0]
	if item.Price.ID == priceID {
		return sub, nil
	}

	params := &stripe.SubscriptionParams{
		Items: []*stripe.SubscriptionItemsParams{
			{ID: stripe.String(item.ID), Price: stripe.String(priceID)},
		},
		ProrationBehavior: stripe.String("create_prorations"),
	}
	params.Context = ctx
	return c.api.Subscriptions.Update(subscriptionID, params)
}

// ListRecurringPrices returns the active recurring prices of productID,
// with the product expanded.
func (c *Client) ListRecurringPrices(ctx context.Context, productID string) ([]*stripe.Price, error) {
	params := &stripe.PriceListParams{
		Active: stripe.Bool(true),
		Type:   stripe.String(string(stripe.PriceTypeRecurring)),
	}
	if productID != "" {
		params.Product = stripe.String(productID)
	}
	params.Context = ctx
	params.AddExpand("data.product")

	var out []*stripe.Price
	it := c.api.Prices.List(params)
	for it.Next() {
		out = append(out, it.Price())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
