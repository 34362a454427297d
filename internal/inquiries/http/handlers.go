package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/focitech/focitech-backend/internal/api/http/request"
	"github.com/focitech/focitech-backend/internal/api/http/response"
	"github.com/focitech/focitech-backend/internal/inquiries/domain"
)

// CreateInquiry is the public contact form endpoint.
func (h *Handler) CreateInquiry(c *gin.Context) {
	var req domain.CreateInquiryRequest
	if err := request.BindJSON(c, &req); err != nil {
		h.errs.Error(c, err)
		return
	}
	inq, err := h.inquiries.Create(c.Request.Context(), req)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Thank you for reaching out! We will get back to you soon.",
		"id":      inq.ID,
	})
}

// ListInquiries supports ?status=, ?search=, ?date_from= and ?date_to=.
func (h *Handler) ListInquiries(c *gin.Context) {
	f := domain.ListFilter{
		Status: domain.Status(request.QueryString(c, "status")),
		Search: request.QueryString(c, "search"),
		From:   request.QueryTime(c, "date_from"),
		To:     request.QueryTime(c, "date_to"),
	}
	page, err := h.inquiries.List(c.Request.Context(), f, h.bounds.FromQuery(c))
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetInquiry(c *gin.Context) {
	id, err := request.PathID(c)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	inq, err := h.inquiries.Get(c.Request.Context(), id)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, inq)
}

func (h *Handler) UpdateInquiry(c *gin.Context) {
	id, err := request.PathID(c)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	var req domain.UpdateInquiryRequest
	if err := request.BindJSON(c, &req); err != nil {
		h.errs.Error(c, err)
		return
	}
	inq, err := h.inquiries.Update(c.Request.Context(), id, req)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, inq)
}

func (h *Handler) DeleteInquiry(c *gin.Context) {
	id, err := request.PathID(c)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	if err := h.inquiries.Delete(c.Request.Context(), id); err != nil {
		h.errs.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "inquiry removed")
}
