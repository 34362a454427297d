package http

import (
	"github.com/gin-gonic/gin"

	"github.com/focitech/focitech-backend/internal/api/http/response"
	"github.com/focitech/focitech-backend/internal/auth/middleware"
	"github.com/focitech/focitech-backend/internal/careers/service"
	"github.com/focitech/focitech-backend/internal/pagination"
)

type Handler struct {
	careers *service.CareersService
	auth    *middleware.Auth
	errs    *response.Writer
	bounds  pagination.Bounds
	limiter gin.HandlerFunc
}

// New builds the handler. limiter guards the public apply route and may be nil.
func New(careers *service.CareersService, auth *middleware.Auth, errs *response.Writer, bounds pagination.Bounds, limiter gin.HandlerFunc) *Handler {
	if limiter == nil {
		limiter = func(c *gin.Context) { c.Next() }
	}
	return &Handler{careers: careers, auth: auth, errs: errs, bounds: bounds, limiter: limiter}
}
