package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/focitech/focitech-backend/internal/api/http/request"
	"github.com/focitech/focitech-backend/internal/api/http/response"
	"github.com/focitech/focitech-backend/internal/apperr"
	"github.com/focitech/focitech-backend/internal/careers/domain"
	"github.com/focitech/focitech-backend/internal/upload"
)

const (
	resumeField = "resume"
	// formOverhead covers the text fields and multipart framing around the file.
	formOverhead int64 = 64 << 10
)

func jobFilter(c *gin.Context) domain.JobFilter {
	return domain.JobFilter{
		Department: request.QueryString(c, "department"),
		Location:   request.QueryString(c, "location"),
		JobType:    request.QueryString(c, "job_type"),
	}
}

// ListOpenings is the public board and only ever shows active openings.
func (h *Handler) ListOpenings(c *gin.Context) {
	f := jobFilter(c)
	active := true
	f.Active = &active

	page, err := h.careers.ListOpenings(c.Request.Context(), f, h.bounds.FromQuery(c))
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListAllOpenings includes closed openings unless ?active= narrows it.
func (h *Handler) ListAllOpenings(c *gin.Context) {
	f := jobFilter(c)
	f.Active = request.QueryBool(c, "active")

	page, err := h.careers.ListOpenings(c.Request.Context(), f, h.bounds.FromQuery(c))
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetOpening(c *gin.Context) {
	id, err := request.PathID(c)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	job, err := h.careers.GetOpening(c.Request.Context(), id, true)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *Handler) CreateOpening(c *gin.Context) {
	var req domain.CreateJobRequest
	if err := request.BindJSON(c, &req); err != nil {
		h.errs.Error(c, err)
		return
	}
	job, err := h.careers.CreateOpening(c.Request.Context(), req)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *Handler) UpdateOpening(c *gin.Context) {
	id, err := request.PathID(c)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	var req domain.UpdateJobRequest
	if err := request.BindJSON(c, &req); err != nil {
		h.errs.Error(c, err)
		return
	}
	job, err := h.careers.UpdateOpening(c.Request.Context(), id, req)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *Handler) DeleteOpening(c *gin.Context) {
	id, err := request.PathID(c)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	if err := h.careers.DeleteOpening(c.Request.Context(), id); err != nil {
		h.errs.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "job opening removed")
}

// Apply accepts a multipart form with the applicant fields and a resume file.
func (h *Handler) Apply(c *gin.Context) {
	maxResume := h.careers.MaxResumeBytes()
	limit := maxResume + formOverhead
	if c.Request.ContentLength > limit {
		h.errs.Error(c, upload.TooLarge(maxResume))
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	var req domain.ApplyRequest
	if err := c.ShouldBind(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.errs.Error(c, upload.TooLarge(maxResume))
			return
		}
		h.errs.Error(c, apperr.InvalidArgument("invalid application form"))
		return
	}

	var resume domain.Resume
	if fh, err := c.FormFile(resumeField); err == nil {
		f, err := fh.Open()
		if err != nil {
			h.errs.Error(c, apperr.InvalidArgument("could not read uploaded file"))
			return
		}
		defer f.Close()
		resume = domain.Resume{
			Filename:    fh.Filename,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        f,
		}
	}

	app, err := h.careers.Apply(c.Request.Context(), req, resume)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Application submitted successfully! We will review it and get back to you.",
		"id":      app.ID,
	})
}

// ListApplications supports ?status=, ?job_id= and ?search=.
func (h *Handler) ListApplications(c *gin.Context) {
	f := domain.ApplicationFilter{
		Status: domain.ApplicationStatus(request.QueryString(c, "status")),
		JobID:  request.QueryInt64(c, "job_id"),
		Search: request.QueryString(c, "search"),
	}
	page, err := h.careers.ListApplications(c.Request.Context(), f, h.bounds.FromQuery(c))
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetApplication(c *gin.Context) {
	id, err := request.PathID(c)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	app, err := h.careers.GetApplication(c.Request.Context(), id)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *Handler) UpdateApplication(c *gin.Context) {
	id, err := request.PathID(c)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	var req domain.UpdateApplicationRequest
	if err := request.BindJSON(c, &req); err != nil {
		h.errs.Error(c, err)
		return
	}
	app, err := h.careers.UpdateApplication(c.Request.Context(), id, req)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *Handler) DeleteApplication(c *gin.Context) {
	id, err := request.PathID(c)
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	if err := h.careers.DeleteApplication(c.Request.Context(), id); err != nil {
		h.errs.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "application removed")
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.careers.Stats(c.Request.Context())
	if err != nil {
		h.errs.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
