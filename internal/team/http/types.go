package http

import (
	"github.com/focitech/focitech-backend/internal/api/http/response"
	"github.com/focitech/focitech-backend/internal/auth/middleware"
	"github.com/focitech/focitech-backend/internal/pagination"
	"github.com/focitech/focitech-backend/internal/team/service"
)

type Handler struct {
	team   *service.TeamService
	auth   *middleware.Auth
	errs   *response.Writer
	bounds pagination.Bounds
}

func New(team *service.TeamService, auth *middleware.Auth, errs *response.Writer, bounds pagination.Bounds) *Handler {
	return &Handler{team: team, auth: auth, errs: errs, bounds: bounds}
}
