package billing

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentStore struct {
	db *gorm.DB
}

func NewPaymentStore(db *gorm.DB) *PaymentStore {
	return &PaymentStore{db: db}
}

// Record upserts p by invoice ID; a redelivered invoice event only refreshes
// the status and amount.
func (s *PaymentStore) Record(ctx context.Context, p *Payment) error {
	cols := []string{"status", "amount_jpy", "currency", "hosted_invoice_url", "updated_at"}
	if p.UserID != nil {
		cols = append(cols, "user_id")
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stripe_invoice_id"}},
			DoUpdates: clause.AssignmentColumns(cols),
		}).
		Create(p).Error
	if err != nil {
		return fmt.Errorf("record payment %s: %w", p.StripeInvoiceID, err)
	}
	return nil
}

func (s *PaymentStore) ListByUser(ctx context.Context, userID string) ([]Payment, error) {
	var out []Payment
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return out, nil
}

// Revenue sums paid amounts in yen, optionally only those recorded since.
func (s *PaymentStore) Revenue(ctx context.Context, since *time.Time) (int64, error) {
	q := s.db.WithContext(ctx).Model(&Payment{}).Where("status = ?", PaymentPaid)
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}
	var total int64
	if err := q.Select("COALESCE(SUM(amount_jpy), 0)").Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("sum revenue: %w", err)
	}
	return total, nil
}
