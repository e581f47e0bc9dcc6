package properties

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

// Store scopes every query to the owning user; a row that belongs to
// someone else is reported as ErrNotFound.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListProperties(ctx context.Context, userID string) ([]Property, error) {
	var out []Property
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return out, nil
}

func (s *Store) GetProperty(ctx context.Context, userID string, id uint) (*Property, error) {
	var p Property
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get property %d: %w", id, err)
	}
	return &p, nil
}

func (s *Store) CreateProperty(ctx context.Context, p *Property) error {
	p.ID = 0
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create property: %w", err)
	}
	return nil
}

// UpdateProperty overwrites the editable columns of an owned property.
func (s *Store) UpdateProperty(ctx context.Context, p *Property) error {
	res := s.db.WithContext(ctx).
		Model(&Property{}).
		Where("id = ? AND user_id = ?", p.ID, p.UserID).
		Select("name", "zipcode", "address", "structure", "built_year", "price",
			"building_cost", "annual_rent", "operating_expenses", "memo").
		Updates(p)
	if res.Error != nil {
		return fmt.Errorf("update property %d: %w", p.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProperty removes the property; its simulations are kept but
// detached.
func (s *Store) DeleteProperty(ctx context.Context, userID string, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&Property{})
		if res.Error != nil {
			return fmt.Errorf("delete property %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&Simulation{}).
			Where("property_id = ? AND user_id = ?", id, userID).
			Update("property_id", nil).Error
	})
}

func (s *Store) ListSimulations(ctx context.Context, userID string, propertyID *uint) ([]Simulation, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if propertyID != nil {
		q = q.Where("property_id = ?", *propertyID)
	}
	var out []Simulation
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list simulations: %w", err)
	}
	return out, nil
}

// CreateSimulation stores sim; a PropertyID must point at one of the
// user's own properties.
func (s *Store) CreateSimulation(ctx context.Context, sim *Simulation) error {
	if sim.PropertyID != nil {
		if _, err := s.GetProperty(ctx, sim.UserID, *sim.PropertyID); err != nil {
			return err
		}
	}
	sim.ID = 0
	if err := s.db.WithContext(ctx).Create(sim).Error; err != nil {
		return fmt.Errorf("create simulation: %w", err)
	}
	return nil
}

func (s *Store) DeleteSimulation(ctx context.Context, userID string, id uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&Simulation{})
	if res.Error != nil {
		return fmt.Errorf("delete simulation %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
