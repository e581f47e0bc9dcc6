package plans

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("plan not found")

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Upsert writes p keyed by its Stripe price ID and reports whether a new
// row was created.
func (s *Store) Upsert(ctx context.Context, p *Plan) (bool, error) {
	var existing Plan
	err := s.db.WithContext(ctx).Where("stripe_price_id = ?", p.StripePriceID).First(&existing).Error
	created := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !created {
		return false, fmt.Errorf("find plan %s: %w", p.StripePriceID, err)
	}

	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stripe_price_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "price_jpy", "stripe_product_id", "interval", "active"}),
		}).
		Create(p).Error
	if err != nil {
		return false, fmt.Errorf("upsert plan %s: %w", p.StripePriceID, err)
	}
	return created, nil
}

// DeactivateOthers marks every plan of productID whose price is not in keep
// as inactive, returning how many were switched off.
func (s *Store) DeactivateOthers(ctx context.Context, productID string, keep []string) (int64, error) {
	q := s.db.WithContext(ctx).Model(&Plan{}).Where("active = ?", true)
	if productID != "" {
		q = q.Where("stripe_product_id = ?", productID)
	}
	if len(keep) > 0 {
		q = q.Where("stripe_price_id NOT IN ?", keep)
	}
	res := q.Update("active", false)
	if res.Error != nil {
		return 0, fmt.Errorf("deactivate plans: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *Store) ListActive(ctx context.Context, productID string) ([]Plan, error) {
	q := s.db.WithContext(ctx).Where("active = ?", true)
	if productID != "" {
		q = q.Where("stripe_product_id = ?", productID)
	}
	var out []Plan
	if err := q.Order("price_jpy ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return out, nil
}

// FindActiveByPriceID is the checkout allow-list.
func (s *Store) FindActiveByPriceID(ctx context.Context, priceID string) (*Plan, error) {
	var p Plan
	err := s.db.WithContext(ctx).Where("stripe_price_id = ? AND active = ?", priceID, true).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) FindByPriceID(ctx context.Context, priceID string) (*Plan, error) {
	var p Plan
	err := s.db.WithContext(ctx).Where("stripe_price_id = ?", priceID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
