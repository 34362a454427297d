package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/team")
	g.GET("", h.ListMembers)
	g.GET("/:id", h.GetMember)

	admin := g.Group("", h.auth.Admin())
	admin.POST("", h.CreateMember)
	admin.PATCH("/:id", h.UpdateMember)
	admin.DELETE("/:id", h.DeleteMember)
}
