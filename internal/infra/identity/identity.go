// Package identity verifies bearer tokens for whichever auth backend the
// deployment runs on. Supabase owns its users remotely; Neon keeps the
// credentials in our own Postgres.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	ProviderSupabase = "supabase"
	ProviderNeon     = "neon"
)

var (
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password must be at least 8 characters long and contain both letters and numbers")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrUnknownProvider    = errors.New("unknown auth provider")
)

// Identity is the authenticated caller as seen by the rest of the app.
type Identity struct {
	UserID   string
	Email    string
	Name     string
	Role     string
	Provider string
}

type Provider interface {
	Name() string
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}

// CredentialProvider is implemented by backends where this service checks
// passwords itself.
type CredentialProvider interface {
	Provider
	Register(ctx context.Context, email, password, name string) (*Identity, error)
	Login(ctx context.Context, email, password string) (string, *Identity, error)
}

type Options struct {
	Provider string

	// neon
	DB        *gorm.DB
	JWTSecret string
	TokenTTL  time.Duration

	// supabase
	SupabaseURL       string
	SupabaseJWTSecret string
}

// New builds the provider named by opts.Provider.
func New(ctx context.Context, opts Options) (Provider, error) {
	switch opts.Provider {
	case ProviderNeon, "":
		if opts.DB == nil || opts.JWTSecret == "" {
			return nil, errors.New("neon provider needs a database and JWT secret")
		}
		return NewNeonProvider(opts.DB, opts.JWTSecret, opts.TokenTTL), nil
	case ProviderSupabase:
		return NewSupabaseProvider(ctx, opts.SupabaseURL, opts.SupabaseJWTSecret)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, opts.Provider)
	}
}
