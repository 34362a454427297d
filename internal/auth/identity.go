package auth

import (
	"context"
	"errors"
)

// Role is the coarse-grained role claim carried by a verified identity.
type Role string

const (
	// RoleAuthenticated is assumed when the provider reports no role claim.
	RoleAuthenticated Role = "authenticated"
	RoleAdmin         Role = "admin"
)

// Identity is the resolved caller for one request. It is never persisted.
type Identity struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Role     Role           `json:"role"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// RoleFromClaim normalises a raw claim value into a Role.
func RoleFromClaim(v any) Role {
	if s, ok := v.(string); ok && s != "" {
		return Role(s)
	}
	return RoleAuthenticated
}

// Provider verifies an opaque bearer token with the external identity service.
// A nil identity with a nil error means the provider knows no such user.
type Provider interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, token string) (*Identity, error)

func (f ProviderFunc) Verify(ctx context.Context, token string) (*Identity, error) {
	return f(ctx, token)
}

var (
	ErrMissingHeader   = errors.New("missing authorization header")
	ErrMalformedHeader = errors.New("malformed header")
	ErrNoUser          = errors.New("provider returned no user")
	ErrSessionExpired  = errors.New("session expired")
	ErrSessionRevoked  = errors.New("session revoked")
	ErrInvalidToken    = errors.New("invalid token")
)
