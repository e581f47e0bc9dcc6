package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email        string  `gorm:"not null;uniqueIndex:idx_users_email" json:"email"`
	Name         string  `json:"name"`
	Role         string  `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'neon'" json:"auth_provider"`
	PasswordHash *string `gorm:"column:password_hash" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ErrEmailInUse means the email already belongs to a user with another ID.
var ErrEmailInUse = errors.New("email already registered to another user")

// EnsureUser inserts the user when no row with the same ID exists yet.
// Identities managed outside this database (Supabase) land here on first use.
func EnsureUser(db *gorm.DB, u *User) error {
	if u.Role == "" {
		u.Role = RoleUser
	}
	if err := emailOwnedElsewhere(db, u); err != nil {
		return err
	}
	err := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).Create(u).Error
	if err != nil {
		// A concurrent insert may have claimed the email in between.
		if clash := emailOwnedElsewhere(db, u); clash != nil {
			return clash
		}
		return fmt.Errorf("ensure user %s: %w", u.ID, err)
	}
	return nil
}

func emailOwnedElsewhere(db *gorm.DB, u *User) error {
	var n int64
	err := db.Model(&User{}).Where("email = ? AND id <> ?", u.Email, u.ID).Count(&n).Error
	if err != nil {
		return fmt.Errorf("check email %s: %w", u.Email, err)
	}
	if n > 0 {
		return ErrEmailInUse
	}
	return nil
}

var ErrNotFound = errors.New("user not found")

func FindByID(ctx context.Context, db *gorm.DB, id string) (*User, error) {
	var u User
	err := db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	return &u, nil
}

func List(ctx context.Context, db *gorm.DB) ([]User, error) {
	var out []User
	if err := db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

func Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	if err := db.WithContext(ctx).Model(&User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
