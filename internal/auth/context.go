package auth

import (
	"context"

	"github.com/gin-gonic/gin"
)

const CtxIdentity = "identity"

type identityKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity set by the auth middleware, if any.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}

// CurrentIdentity extracts the identity from the Gin context.
func CurrentIdentity(c *gin.Context) (*Identity, bool) {
	v, ok := c.Get(CtxIdentity)
	if !ok {
		return nil, false
	}
	id, ok := v.(*Identity)
	return id, ok && id != nil
}
