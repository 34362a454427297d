package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/focitech/focitech-backend/internal/apperr"
	"github.com/focitech/focitech-backend/internal/logging"
)

// SessionExpiredMessage is the only text clients see for any authentication failure.
const SessionExpiredMessage = "session expired, please sign in again"

// ParseBearer extracts the token from an Authorization header value of the
// exact form "Bearer <token>".
func ParseBearer(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", ErrMissingHeader
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", ErrMalformedHeader
	}
	return parts[1], nil
}

// Authenticator resolves a request's bearer credential to an Identity.
type Authenticator struct {
	provider Provider
}

func NewAuthenticator(provider Provider) *Authenticator {
	return &Authenticator{provider: provider}
}

// Authenticate never returns raw provider errors: every failure is an
// Unauthenticated *apperr.Error whose cause is logged.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (*Identity, error) {
	log := logging.FromContext(ctx)

	token, err := ParseBearer(header)
	if err != nil {
		log.Warn("authentication rejected", slog.String("cause", err.Error()))
		return nil, apperr.Unauthenticated(SessionExpiredMessage, err)
	}

	id, err := a.provider.Verify(ctx, token)
	if err != nil {
		log.Warn("identity provider rejected token", slog.String("cause", err.Error()))
		return nil, apperr.Unauthenticated(SessionExpiredMessage, fmt.Errorf("verify token: %w", err))
	}
	if id == nil {
		log.Warn("identity provider rejected token", slog.String("cause", ErrNoUser.Error()))
		return nil, apperr.Unauthenticated(SessionExpiredMessage, ErrNoUser)
	}

	if id.Role == "" {
		id.Role = RoleAuthenticated
	}
	return id, nil
}
