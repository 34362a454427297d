package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/inquiries")
	g.POST("", h.limiter, h.CreateInquiry)

	admin := g.Group("", h.auth.Admin())
	admin.GET("", h.ListInquiries)
	admin.GET("/:id", h.GetInquiry)
	admin.PUT("/:id", h.UpdateInquiry)
	admin.DELETE("/:id", h.DeleteInquiry)
}
