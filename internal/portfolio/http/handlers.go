package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/focitech/focitech-backend/internal/api/http/request"
	"github.com/focitech/focitech-backend/internal/api/http/response"
	"github.com/focitech/focitech-backend/internal/portfolio/domain"
)

// ListProjects supports ?search=, ?tech= and ?featured= plus paging.
func (h *Handler) ListProjects(c *gin.Context) {
	f := domain.ListFilter{
		Search:   request.QueryString(c, "search"),
		Tech:     request.QueryString(c, "tech"),
		Featured: request.QueryBool(c, "featured"),
	}

	page, err := h.projects.List(c.Request.Context(), f, h.bounds.FromQuery(c))
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetProject(c *gin.Context) {
	id, err := request.PathID(c)
	if err != nil {
		h.errs.Error(c, err)
		return
	}

	p, err := h.projects.Get(c.Request.Context(), id)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) CreateProject(c *gin.Context) {
	var req domain.CreateProjectRequest
	if err := request.BindJSON(c, &req); err != nil {
		h.errs.Error(c, err)
		return
	}

	p, err := h.projects.Create(c.Request.Context(), req)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdateProject(c *gin.Context) {
	id, err := request.PathID(c)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	var req domain.UpdateProjectRequest
	if err := request.BindJSON(c, &req); err != nil {
		h.errs.Error(c, err)
		return
	}

	p, err := h.projects.Update(c.Request.Context(), id, req)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteProject(c *gin.Context) {
	id, err := request.PathID(c)
	if err != nil {
		h.errs.Error(c, err)
		return
	}

	if err := h.projects.Delete(c.Request.Context(), id); err != nil {
		h.errs.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, fmt.Sprintf("project %d deleted", id))
}

// ExportProjects downloads every project as a JSON attachment.
func (h *Handler) ExportProjects(c *gin.Context) {
	items, err := h.projects.Export(c.Request.Context())
	if err != nil {
		h.errs.Error(c, err)
		return
	}

	now := time.Now().UTC()
	filename := fmt.Sprintf("projects_export_%s.json", now.Format("20060102_150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.JSON(http.StatusOK, gin.H{
		"exported_at": now,
		"count":       len(items),
		"projects":    items,
	})
}
