package database

import (
	"fmt"
	"time"

	"ooya-dx/internal/domain/billing"
	"ooya-dx/internal/domain/plans"
	"ooya-dx/internal/domain/properties"
	"ooya-dx/internal/domain/subscriptions"
	"ooya-dx/internal/domain/users"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Models lists every table the service owns, in migration order.
func Models() []interface{} {
	return []interface{}{
		// core
		&users.User{},
		&subscriptions.Subscription{},
		&plans.Plan{},
		&billing.Payment{},

		// dashboard
		&properties.Property{},
		&properties.Simulation{},
	}
}

// InitDB connects to Postgres (Neon or Supabase) and migrates the schema.
func InitDB(dsn string, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("connected and migrated")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
