package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focitech/focitech-backend/internal/apperr"
)

type countingProvider struct {
	calls int
	id    *Identity
	err   error
}

func (p *countingProvider) Verify(context.Context, string) (*Identity, error) {
	p.calls++
	return p.id, p.err
}

func TestParseBearer(t *testing.T) {
	tests := []struct {
		header  string
		token   string
		wantErr error
	}{
		{"Bearer abc", "abc", nil},
		{"  Bearer   abc  ", "abc", nil},
		{"", "", ErrMissingHeader},
		{"   ", "", ErrMissingHeader},
		{"Bearer", "", ErrMalformedHeader},
		{"bearer abc", "", ErrMalformedHeader},
		{"Token abc", "", ErrMalformedHeader},
		{"Bearer a b", "", ErrMalformedHeader},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			tok, err := ParseBearer(tt.header)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.token, tok)
		})
	}
}

func TestAuthenticate_BadHeaderSkipsProvider(t *testing.T) {
	for _, header := range []string{"", "Basic abc", "Bearer", "Bearer a b"} {
		p := &countingProvider{id: &Identity{ID: "u1"}}
		_, err := NewAuthenticator(p).Authenticate(context.Background(), header)

		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
		assert.Zero(t, p.calls, "header %q", header)
	}
}

func TestAuthenticate_ProviderFailuresCollapse(t *testing.T) {
	tests := []struct {
		name string
		p    *countingProvider
	}{
		{"expired", &countingProvider{err: ErrSessionExpired}},
		{"revoked", &countingProvider{err: ErrSessionRevoked}},
		{"transport", &countingProvider{err: errors.New("dial tcp: timeout")}},
		{"no user", &countingProvider{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAuthenticator(tt.p).Authenticate(context.Background(), "Bearer tok")

			var ae *apperr.Error
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, apperr.KindUnauthenticated, ae.Kind)
			assert.Equal(t, SessionExpiredMessage, ae.Message)
			assert.Equal(t, 1, tt.p.calls)
		})
	}
}

func TestAuthenticate_DefaultsRole(t *testing.T) {
	p := &countingProvider{id: &Identity{ID: "u1", Email: "a@b.co"}}
	id, err := NewAuthenticator(p).Authenticate(context.Background(), "Bearer tok")
	require.NoError(t, err)
	assert.Equal(t, RoleAuthenticated, id.Role)
}

func TestAuthorize(t *testing.T) {
	admin := &Identity{ID: "1", Email: "boss@co.io", Role: RoleAdmin}
	got, err := Authorize(context.Background(), admin, RoleAdmin)
	require.NoError(t, err)
	assert.Same(t, admin, got)

	user := &Identity{ID: "2", Email: "u@co.io"}
	_, err = Authorize(context.Background(), user, RoleAdmin)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.KindForbidden, ae.Kind)
	assert.Contains(t, ae.Message, "admin")

	// No hierarchy: an admin is not implicitly an editor.
	_, err = Authorize(context.Background(), admin, Role("editor"))
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = Authorize(context.Background(), nil, RoleAdmin)
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
}

func TestDecide_EmptyRoleIsAuthenticated(t *testing.T) {
	assert.True(t, Decide(Identity{}, RoleAuthenticated).Allowed)
	assert.False(t, Decide(Identity{}, RoleAdmin).Allowed)
}

func TestJWTProvider(t *testing.T) {
	const secret = "test-secret"
	p := NewJWTProvider(secret, "authenticated")

	tok, err := SignHostedToken(secret, "authenticated", "user-1", "a@co.io", RoleAdmin, time.Hour)
	require.NoError(t, err)
	id, err := p.Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.ID)
	assert.Equal(t, "a@co.io", id.Email)
	assert.Equal(t, RoleAdmin, id.Role)

	plain, err := SignHostedToken(secret, "authenticated", "user-2", "b@co.io", "", time.Hour)
	require.NoError(t, err)
	id, err = p.Verify(context.Background(), plain)
	require.NoError(t, err)
	assert.Equal(t, RoleAuthenticated, id.Role)

	expired, err := SignHostedToken(secret, "authenticated", "user-1", "a@co.io", RoleAdmin, -time.Minute)
	require.NoError(t, err)
	_, err = p.Verify(context.Background(), expired)
	assert.ErrorIs(t, err, ErrSessionExpired)

	forged, err := SignHostedToken("other-secret", "authenticated", "user-1", "a@co.io", RoleAdmin, time.Hour)
	require.NoError(t, err)
	_, err = p.Verify(context.Background(), forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongAud, err := SignHostedToken(secret, "service_role", "user-1", "a@co.io", RoleAdmin, time.Hour)
	require.NoError(t, err)
	_, err = p.Verify(context.Background(), wrongAud)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
