package http

import (
	"github.com/focitech/focitech-backend/internal/api/http/response"
	"github.com/focitech/focitech-backend/internal/auth/middleware"
	"github.com/focitech/focitech-backend/internal/pagination"
	"github.com/focitech/focitech-backend/internal/portfolio/service"
)

// Handler serves the portfolio routes.
type Handler struct {
	projects *service.ProjectService
	auth     *middleware.Auth
	errs     *response.Writer
	bounds   pagination.Bounds
}

func New(projects *service.ProjectService, auth *middleware.Auth, errs *response.Writer, bounds pagination.Bounds) *Handler {
	return &Handler{projects: projects, auth: auth, errs: errs, bounds: bounds}
}
