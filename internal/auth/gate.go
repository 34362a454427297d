package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/focitech/focitech-backend/internal/apperr"
	"github.com/focitech/focitech-backend/internal/logging"
)

// Decision is the outcome of checking one identity against one required role.
type Decision struct {
	Allowed bool
	Reason  string
}

// Decide compares the role claim to required by exact string equality.
func Decide(id Identity, required Role) Decision {
	role := id.Role
	if role == "" {
		role = RoleAuthenticated
	}
	if role == required {
		return Decision{Allowed: true}
	}
	return Decision{Reason: fmt.Sprintf("access denied: this action requires %s privileges", required)}
}

// Authorize returns id unchanged when it holds required, else a Forbidden error.
func Authorize(ctx context.Context, id *Identity, required Role) (*Identity, error) {
	if id == nil {
		return nil, apperr.Unauthenticated(SessionExpiredMessage, ErrNoUser)
	}

	d := Decide(*id, required)
	if !d.Allowed {
		logging.FromContext(ctx).Warn("permission denied",
			slog.String("email", id.Email),
			slog.String("required_role", string(required)),
			slog.String("role", string(id.Role)),
		)
		return nil, apperr.Forbidden(d.Reason)
	}
	return id, nil
}
