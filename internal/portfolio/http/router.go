package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/projects")
	g.GET("", h.ListProjects)
	g.GET("/:id", h.GetProject)

	admin := g.Group("", h.auth.Admin())
	admin.POST("", h.CreateProject)
	admin.PATCH("/:id", h.UpdateProject)
	admin.DELETE("/:id", h.DeleteProject)
	admin.GET("/admin/export", h.ExportProjects)
}
