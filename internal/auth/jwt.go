package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// HostedClaims is the access-token payload issued by hosted auth services
// that sign with a shared HS256 secret. The role lives in app_metadata.
type HostedClaims struct {
	jwt.RegisteredClaims
	Email        string         `json:"email"`
	Role         string         `json:"role,omitempty"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

// JWTProvider verifies HS256 access tokens locally with the shared secret.
type JWTProvider struct {
	secret   []byte
	audience string
}

func NewJWTProvider(secret, audience string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret), audience: audience}
}

func (p *JWTProvider) Verify(_ context.Context, token string) (*Identity, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if p.audience != "" {
		opts = append(opts, jwt.WithAudience(p.audience))
	}

	claims := &HostedClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(_ *jwt.Token) (any, error) {
		return p.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrSessionExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, nil
	}

	return &Identity{
		ID:       claims.Subject,
		Email:    claims.Email,
		Role:     RoleFromClaim(claims.AppMetadata["role"]),
		Metadata: claims.AppMetadata,
	}, nil
}

// SignHostedToken issues a token in the same shape the hosted service does.
// Used by local tooling and tests.
func SignHostedToken(secret, audience, subject, email string, role Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := HostedClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
		Role:  "authenticated",
	}
	if audience != "" {
		claims.Audience = jwt.ClaimStrings{audience}
	}
	if role != "" {
		claims.AppMetadata = map[string]any{"role": string(role)}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
