package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/jobs")
	g.GET("/openings", h.ListOpenings)
	g.GET("/openings/:id", h.GetOpening)
	g.POST("/apply", h.limiter, h.Apply)

	admin := g.Group("", h.auth.Admin())
	admin.GET("/admin/openings", h.ListAllOpenings)
	admin.POST("/openings", h.CreateOpening)
	admin.PATCH("/openings/:id", h.UpdateOpening)
	admin.DELETE("/openings/:id", h.DeleteOpening)

	admin.GET("/applications", h.ListApplications)
	admin.GET("/applications/:id", h.GetApplication)
	admin.PATCH("/applications/:id", h.UpdateApplication)
	admin.DELETE("/applications/:id", h.DeleteApplication)

	admin.GET("/stats", h.Stats)
}
