// Package middleware wires the authenticator and role gate into gin.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/focitech/focitech-backend/internal/api/http/response"
	"github.com/focitech/focitech-backend/internal/auth"
	"github.com/focitech/focitech-backend/internal/logging"
)

type Auth struct {
	authn     *auth.Authenticator
	errs      *response.Writer
	adminRole auth.Role
}

func NewAuth(authn *auth.Authenticator, errs *response.Writer) *Auth {
	return &Auth{authn: authn, errs: errs, adminRole: auth.RoleAdmin}
}

// WithAdminRole overrides the role claim Admin requires.
func (a *Auth) WithAdminRole(role auth.Role) *Auth {
	if role != "" {
		a.adminRole = role
	}
	return a
}

// Authenticated requires a valid bearer token and stores the identity on the
// gin context and the request context.
func (a *Auth) Authenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := a.authn.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			a.errs.Error(c, err)
			return
		}
		a.attach(c, id)
		c.Next()
	}
}

// RequireRole authenticates first, then checks the role claim. The audit
// line is written before the check so denied writes are recorded too.
func (a *Auth) RequireRole(required auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		id, err := a.authn.Authenticate(ctx, c.GetHeader("Authorization"))
		if err != nil {
			a.errs.Error(c, err)
			return
		}
		a.attach(c, id)
		if _, err := auth.Authorize(ctx, id, required); err != nil {
			a.errs.Error(c, err)
			return
		}
		c.Next()
	}
}

func (a *Auth) Admin() gin.HandlerFunc {
	return a.RequireRole(a.adminRole)
}

// attach stores the identity and an email-scoped logger, then audits
// mutating requests.
func (a *Auth) attach(c *gin.Context, id *auth.Identity) {
	c.Set(auth.CtxIdentity, id)

	log := logging.FromContext(c.Request.Context()).With(slog.String("email", id.Email))
	ctx := auth.WithIdentity(c.Request.Context(), id)
	c.Request = c.Request.WithContext(logging.WithContext(ctx, log))

	if isMutating(c.Request.Method) {
		log.Info("audit",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		)
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
