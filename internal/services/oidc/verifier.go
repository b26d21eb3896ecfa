package oidc

import (
	"context"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/graham-fleming/lifehub/internal/models"
)

// Verifier checks bearer tokens against a provider's signing keys
type Verifier struct {
	jwksManager *JWKSManager
	issuer      string
}

// NewVerifier creates a new JWT verifier
func NewVerifier(jwksManager *JWKSManager, issuer string) *Verifier {
	return &Verifier{
		jwksManager: jwksManager,
		issuer:      issuer,
	}
}

func claimString(token jwt.Token, name string) string {
	if v, ok := token.Get(name); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func claimInt64(token jwt.Token, name string) int64 {
	if v, ok := token.Get(name); ok {
		if f, ok := v.(float64); ok {
			return int64(f)
		}
	}
	return 0
}

// Verify parses and validates a token against the keys at jwksURL, then
// enforces the expected issuer and extracts the claims the app cares about.
func (v *Verifier) Verify(ctx context.Context, tokenString string, jwksURL string) (*models.JWTClaims, error) {
	keys, err := v.jwksManager.GetJWKS(ctx, jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get JWKS: %w", err)
	}

	token, err := jwt.Parse([]byte(tokenString), jwt.WithKeySet(keys), jwt.WithValidate(true))
	if err != nil {
		return nil, fmt.Errorf("failed to parse/verify token: %w", err)
	}

	iss := claimString(token, "iss")
	if iss == "" {
		return nil, fmt.Errorf("token missing issuer claim")
	}
	if iss != v.issuer {
		return nil, fmt.Errorf("token issuer mismatch: expected %s, got %s", v.issuer, iss)
	}

	claims := &models.JWTClaims{
		Sub:   claimString(token, "sub"),
		Email: claimString(token, "email"),
		Name:  claimString(token, "name"),
		Exp:   claimInt64(token, "exp"),
		Iat:   claimInt64(token, "iat"),
		Iss:   iss,
	}

	// aud may be a bare string or an array; take the first entry
	if aud, ok := token.Get("aud"); ok {
		switch a := aud.(type) {
		case string:
			claims.Aud = a
		case []any:
			if len(a) > 0 {
				if s, ok := a[0].(string); ok {
					claims.Aud = s
				}
			}
		}
	}

	return claims, nil
}
