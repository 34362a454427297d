package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/focitech/focitech-backend/internal/apperr"
	"github.com/focitech/focitech-backend/internal/careers/domain"
	"github.com/focitech/focitech-backend/internal/logging"
	"github.com/focitech/focitech-backend/internal/notify"
	"github.com/focitech/focitech-backend/internal/pagination"
	"github.com/focitech/focitech-backend/internal/store"
	"github.com/focitech/focitech-backend/internal/validate"
)

const applicationSource = "website"

// Apply validates the form and resume, confirms the opening is active,
// uploads the resume and records the application, in that order.
func (s *CareersService) Apply(ctx context.Context, req domain.ApplyRequest, resume domain.Resume) (*domain.Application, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.JobTitle = strings.TrimSpace(req.JobTitle)
	req.Phone = trimOrNil(req.Phone)
	req.CoverLetter = trimOrNil(req.CoverLetter)
	req.PortfolioURL = trimOrNil(req.PortfolioURL)

	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if err := s.uploader.Check(resume.Filename, resume.Size); err != nil {
		return nil, err
	}

	job, err := s.GetOpening(ctx, req.JobID, true)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, domain.ErrJobClosed
		}
		return nil, err
	}

	url, err := s.uploader.Upload(ctx, resume.Body, resume.Size, resume.Filename, resume.ContentType)
	if err != nil {
		return nil, err
	}

	row, err := s.store.Insert(ctx, domain.ApplicationsTable, store.Record{
		"name":            req.Name,
		"email":           req.Email,
		"phone":           req.Phone,
		"cover_letter":    req.CoverLetter,
		"portfolio_url":   req.PortfolioURL,
		"resume_url":      url,
		"resume_filename": resume.Filename,
		"job_id":          job.ID,
		"job_title":       req.JobTitle,
		"job_department":  job.Department,
		"job_type":        job.JobType,
		"status":          string(domain.StatusPending),
		"source":          applicationSource,
		"applied_at":      s.now(),
	})
	if err != nil {
		logging.FromContext(ctx).Error("application insert failed after upload",
			slog.String("resume_url", url),
			slog.String("error", err.Error()),
		)
		return nil, apperr.Internal("failed to submit application. Please try again.", err)
	}

	app, err := decodeApplication(row)
	if err != nil {
		return nil, err
	}
	notify.Send(ctx, s.notifier, notify.Event{
		Type:    notify.EventApplicationReceived,
		ID:      app.ID,
		Name:    app.Name,
		Email:   app.Email,
		Subject: app.JobTitle,
	})
	return app, nil
}

func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// ListApplications returns applications, newest first.
func (s *CareersService) ListApplications(ctx context.Context, f domain.ApplicationFilter, p pagination.Params) (pagination.Page[domain.Application], error) {
	var filters []store.Filter
	if f.Status.Valid() {
		filters = append(filters, store.Eq("status", string(f.Status)))
	}
	if f.JobID != nil {
		filters = append(filters, store.Eq("job_id", *f.JobID))
	}
	if f.Search != "" {
		filters = append(filters, store.Or(
			store.ILike("name", f.Search),
			store.ILike("email", f.Search),
			store.ILike("job_title", f.Search),
		))
	}

	total, err := s.store.Count(ctx, domain.ApplicationsTable, filters)
	if err != nil {
		return pagination.Page[domain.Application]{}, apperr.Internal("failed to fetch applications", err)
	}
	rows, err := s.store.Select(ctx, domain.ApplicationsTable, store.Query{
		Filters: filters,
		Order:   []store.Order{{Column: "applied_at", Desc: true}},
		Limit:   p.Limit,
		Offset:  p.Offset,
	})
	if err != nil {
		return pagination.Page[domain.Application]{}, apperr.Internal("failed to fetch applications", err)
	}
	apps, err := store.DecodeAll[domain.Application](rows)
	if err != nil {
		return pagination.Page[domain.Application]{}, apperr.Internal("failed to fetch applications", err)
	}
	return pagination.NewPage(apps, total, p), nil
}

func (s *CareersService) GetApplication(ctx context.Context, id int64) (*domain.Application, error) {
	rows, err := s.store.Select(ctx, domain.ApplicationsTable, store.Query{Filters: byID(id), Limit: 1})
	if err != nil {
		return nil, apperr.Internal("failed to fetch application", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrApplicationNotFound
	}
	return decodeApplication(rows[0])
}

// UpdateApplication changes the review status or notes. A status change
// stamps status_updated_at.
func (s *CareersService) UpdateApplication(ctx context.Context, id int64, req domain.UpdateApplicationRequest) (*domain.Application, error) {
	patch := store.Record{}
	if req.Status != nil {
		patch["status"] = *req.Status
		patch["status_updated_at"] = s.now()
	}
	if req.InternalNotes != nil {
		patch["internal_notes"] = *req.InternalNotes
	}
	if len(patch) == 0 {
		return nil, domain.ErrNoChanges
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	rows, err := s.store.Update(ctx, domain.ApplicationsTable, byID(id), patch)
	if err != nil {
		return nil, apperr.Internal("failed to update application", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrApplicationNotFound
	}
	return decodeApplication(rows[0])
}

func (s *CareersService) DeleteApplication(ctx context.Context, id int64) error {
	n, err := s.store.Count(ctx, domain.ApplicationsTable, byID(id))
	if err != nil {
		return apperr.Internal("failed to delete application", err)
	}
	if n == 0 {
		return domain.ErrApplicationNotFound
	}
	if _, err := s.store.Delete(ctx, domain.ApplicationsTable, byID(id)); err != nil {
		return apperr.Internal("failed to delete application", err)
	}
	return nil
}

func decodeApplication(rec store.Record) (*domain.Application, error) {
	a, err := store.Decode[domain.Application](rec)
	if err != nil {
		return nil, apperr.Internal("failed to read application", err)
	}
	return &a, nil
}
