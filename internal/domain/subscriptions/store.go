package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("subscription not found")

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Upsert writes sub keyed by user_id. When the insert/update conflicts on
// another unique key (a subscription ID already attached to a different
// row), it falls back to updating every row carrying that subscription ID.
//
// Nil customer / subscription / price IDs and a nil CurrentPeriodEnd never
// overwrite values already stored.
func (s *Store) Upsert(ctx context.Context, sub *Subscription) error {
	if sub.UserID == "" {
		return errors.New("subscription upsert: missing user_id")
	}
	if sub.Status == "" {
		sub.Status = StatusNone
	}

	cols := []string{"status", "cancel_at", "cancel_at_period_end", "updated_at"}
	if sub.StripeCustomerID != nil {
		cols = append(cols, "stripe_customer_id")
	}
	if sub.StripeSubscriptionID != nil {
		cols = append(cols, "stripe_subscription_id")
	}
	if sub.StripePriceID != nil {
		cols = append(cols, "stripe_price_id")
	}
	if sub.CurrentPeriodEnd != nil {
		cols = append(cols, "current_period_end")
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(cols),
		}).
		Create(sub).Error
	if err == nil {
		return nil
	}

	if sub.StripeSubscriptionID == nil || *sub.StripeSubscriptionID == "" {
		return fmt.Errorf("upsert subscription for user %s: %w", sub.UserID, err)
	}

	n, uerr := s.UpdateBySubscriptionID(ctx, *sub.StripeSubscriptionID, sub.MirrorFields())
	if uerr != nil {
		return fmt.Errorf("upsert subscription for user %s: %v; fallback update: %w", sub.UserID, err, uerr)
	}
	if n == 0 {
		return fmt.Errorf("upsert subscription for user %s: %w", sub.UserID, err)
	}
	return nil
}

// AttachCustomer records the Stripe customer created for a user before any
// subscription exists. An existing row only has its customer ID replaced.
func (s *Store) AttachCustomer(ctx context.Context, userID, customerID string) error {
	row := &Subscription{
		UserID:           userID,
		StripeCustomerID: &customerID,
		Status:           StatusNone,
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"stripe_customer_id", "updated_at"}),
		}).
		Create(row).Error
	if err != nil {
		return fmt.Errorf("attach customer for user %s: %w", userID, err)
	}
	return nil
}

// UpdateBySubscriptionID applies fields to all rows with the given Stripe
// subscription ID and returns the number of rows touched.
func (s *Store) UpdateBySubscriptionID(ctx context.Context, subscriptionID string, fields map[string]interface{}) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&Subscription{}).
		Where("stripe_subscription_id = ?", subscriptionID).
		Updates(fields)
	if res.Error != nil {
		return 0, fmt.Errorf("update subscription %s: %w", subscriptionID, res.Error)
	}
	return res.RowsAffected, nil
}

func (s *Store) PatchPeriodEnd(ctx context.Context, subscriptionID string, periodEnd time.Time) error {
	n, err := s.UpdateBySubscriptionID(ctx, subscriptionID, map[string]interface{}{
		"current_period_end": periodEnd,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) FindByUserID(ctx context.Context, userID string) (*Subscription, error) {
	return s.findOne(ctx, "user_id = ?", userID)
}

func (s *Store) FindBySubscriptionID(ctx context.Context, subscriptionID string) (*Subscription, error) {
	return s.findOne(ctx, "stripe_subscription_id = ?", subscriptionID)
}

func (s *Store) FindByCustomerID(ctx context.Context, customerID string) (*Subscription, error) {
	return s.findOne(ctx, "stripe_customer_id = ?", customerID)
}

func (s *Store) List(ctx context.Context) ([]Subscription, error) {
	var out []Subscription
	if err := s.db.WithContext(ctx).Order("updated_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return out, nil
}

func (s *Store) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	type row struct {
		Status Status
		Count  int64
	}
	var rows []row
	if err := s.db.WithContext(ctx).
		Model(&Subscription{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count subscriptions: %w", err)
	}

	out := make(map[Status]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Count
	}
	return out, nil
}

func (s *Store) findOne(ctx context.Context, query string, arg interface{}) (*Subscription, error) {
	var sub Subscription
	err := s.db.WithContext(ctx).Where(query, arg).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// MirrorFields is the column set the webhook writes when no user row can be
// addressed directly.
func (s *Subscription) MirrorFields() map[string]interface{} {
	fields := map[string]interface{}{
		"status":               s.Status,
		"cancel_at":            s.CancelAt,
		"cancel_at_period_end": s.CancelAtPeriodEnd,
	}
	if s.StripeCustomerID != nil {
		fields["stripe_customer_id"] = *s.StripeCustomerID
	}
	if s.StripePriceID != nil {
		fields["stripe_price_id"] = *s.StripePriceID
	}
	if s.CurrentPeriodEnd != nil {
		fields["current_period_end"] = *s.CurrentPeriodEnd
	}
	return fields
}
