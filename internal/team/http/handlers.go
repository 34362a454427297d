package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/focitech/focitech-backend/internal/api/http/request"
	"github.com/focitech/focitech-backend/internal/api/http/response"
	"github.com/focitech/focitech-backend/internal/team/domain"
)

func (h *Handler) ListMembers(c *gin.Context) {
	f := domain.ListFilter{
		Search: request.QueryString(c, "search"),
		Role:   request.QueryString(c, "role"),
	}
	page, err := h.team.List(c.Request.Context(), f, h.bounds.FromQuery(c))
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetMember(c *gin.Context) {
	id, err := request.PathID(c)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	m, err := h.team.Get(c.Request.Context(), id)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) CreateMember(c *gin.Context) {
	var req domain.CreateMemberRequest
	if err := request.BindJSON(c, &req); err != nil {
		h.errs.Error(c, err)
		return
	}
	m, err := h.team.Create(c.Request.Context(), req)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *Handler) UpdateMember(c *gin.Context) {
	id, err := request.PathID(c)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	var req domain.UpdateMemberRequest
	if err := request.BindJSON(c, &req); err != nil {
		h.errs.Error(c, err)
		return
	}
	m, err := h.team.Update(c.Request.Context(), id, req)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) DeleteMember(c *gin.Context) {
	id, err := request.PathID(c)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	if err := h.team.Delete(c.Request.Context(), id); err != nil {
		h.errs.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "team member removed")
}
