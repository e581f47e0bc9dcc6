package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ooya-dx/internal/domain/users"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
)

const supabaseAudience = "authenticated"

// SupabaseProvider verifies access tokens minted by Supabase Auth. Legacy
// projects sign with a shared HS256 secret; newer ones publish asymmetric
// keys through the project JWKS endpoint.
type SupabaseProvider struct {
	issuer   string
	secret   []byte
	verifier *oidc.IDTokenVerifier
}

type supabaseClaims struct {
	Email       string                 `json:"email"`
	AppMetadata map[string]interface{} `json:"app_metadata"`
	UserMeta    map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

func NewSupabaseProvider(ctx context.Context, projectURL, jwtSecret string) (*SupabaseProvider, error) {
	projectURL = strings.TrimRight(projectURL, "/")
	if projectURL == "" {
		return nil, errors.New("supabase provider needs SUPABASE_URL")
	}
	issuer := projectURL + "/auth/v1"

	keySet := oidc.NewRemoteKeySet(ctx, issuer+"/.well-known/jwks.json")
	verifier := oidc.NewVerifier(issuer, keySet, &oidc.Config{
		ClientID:             supabaseAudience,
		SupportedSigningAlgs: []string{oidc.RS256, oidc.ES256},
	})

	return &SupabaseProvider{
		issuer:   issuer,
		secret:   []byte(jwtSecret),
		verifier: verifier,
	}, nil
}

func (p *SupabaseProvider) Name() string { return ProviderSupabase }

func (p *SupabaseProvider) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	unverified, _, err := jwt.NewParser().ParseUnverified(rawToken, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var claims supabaseClaims
	if unverified.Method.Alg() == jwt.SigningMethodHS256.Alg() {
		if len(p.secret) == 0 {
			return nil, fmt.Errorf("%w: HS256 token but no SUPABASE_JWT_SECRET", ErrInvalidToken)
		}
		_, err = jwt.ParseWithClaims(rawToken, &claims, func(*jwt.Token) (interface{}, error) {
			return p.secret, nil
		},
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithAudience(supabaseAudience),
			jwt.WithIssuer(p.issuer),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	} else {
		tok, err := p.verifier.Verify(ctx, rawToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		if err := tok.Claims(&claims); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}

	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UserID:   claims.Subject,
		Email:    claims.Email,
		Name:     stringClaim(claims.UserMeta, "full_name", "name"),
		Role:     supabaseRole(claims.AppMetadata),
		Provider: ProviderSupabase,
	}, nil
}

// supabaseRole reads app_metadata.role; the top-level "role" claim is the
// Postgres role ("authenticated") and says nothing about app permissions.
func supabaseRole(appMeta map[string]interface{}) string {
	if stringClaim(appMeta, "role") == users.RoleAdmin {
		return users.RoleAdmin
	}
	return users.RoleUser
}

func stringClaim(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
