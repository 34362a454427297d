package service

import (
	"context"

	"github.com/focitech/focitech-backend/internal/apperr"
	"github.com/focitech/focitech-backend/internal/careers/domain"
	"github.com/focitech/focitech-backend/internal/pagination"
	"github.com/focitech/focitech-backend/internal/store"
	"github.com/focitech/focitech-backend/internal/validate"
)

func jobFilters(f domain.JobFilter) []store.Filter {
	var filters []store.Filter
	if f.Active != nil {
		filters = append(filters, store.Eq("is_active", *f.Active))
	}
	if f.Department != "" {
		filters = append(filters, store.Eq("department", f.Department))
	}
	if f.Location != "" {
		filters = append(filters, store.Eq("location", f.Location))
	}
	if f.JobType != "" {
		filters = append(filters, store.Eq("job_type", f.JobType))
	}
	return filters
}

// ListOpenings returns openings, most recently posted first.
func (s *CareersService) ListOpenings(ctx context.Context, f domain.JobFilter, p pagination.Params) (pagination.Page[domain.Job], error) {
	filters := jobFilters(f)

	total, err := s.store.Count(ctx, domain.JobsTable, filters)
	if err != nil {
		return pagination.Page[domain.Job]{}, apperr.Internal("failed to fetch job openings", err)
	}
	rows, err := s.store.Select(ctx, domain.JobsTable, store.Query{
		Filters: filters,
		Order:   []store.Order{{Column: "posted_date", Desc: true}},
		Limit:   p.Limit,
		Offset:  p.Offset,
	})
	if err != nil {
		return pagination.Page[domain.Job]{}, apperr.Internal("failed to fetch job openings", err)
	}
	jobs, err := store.DecodeAll[domain.Job](rows)
	if err != nil {
		return pagination.Page[domain.Job]{}, apperr.Internal("failed to fetch job openings", err)
	}
	return pagination.NewPage(jobs, total, p), nil
}

// GetOpening returns one opening. With activeOnly, closed openings are NotFound.
func (s *CareersService) GetOpening(ctx context.Context, id int64, activeOnly bool) (*domain.Job, error) {
	filters := byID(id)
	if activeOnly {
		filters = append(filters, store.Eq("is_active", true))
	}
	rows, err := s.store.Select(ctx, domain.JobsTable, store.Query{Filters: filters, Limit: 1})
	if err != nil {
		return nil, apperr.Internal("failed to fetch job opening", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrJobNotFound
	}
	return decodeJob(rows[0])
}

func (s *CareersService) CreateOpening(ctx context.Context, req domain.CreateJobRequest) (*domain.Job, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	now := s.now()
	rec := req.Record()
	rec["posted_date"] = now
	rec["created_at"] = now
	row, err := s.store.Insert(ctx, domain.JobsTable, rec)
	if err != nil {
		return nil, apperr.Internal("failed to create job opening", err)
	}
	return decodeJob(row)
}

func (s *CareersService) UpdateOpening(ctx context.Context, id int64, req domain.UpdateJobRequest) (*domain.Job, error) {
	patch := req.Patch()
	if len(patch) == 0 {
		return nil, domain.ErrNoChanges
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	patch["updated_at"] = s.now()

	rows, err := s.store.Update(ctx, domain.JobsTable, byID(id), patch)
	if err != nil {
		return nil, apperr.Internal("failed to update job opening", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrJobNotFound
	}
	return decodeJob(rows[0])
}

func (s *CareersService) DeleteOpening(ctx context.Context, id int64) error {
	n, err := s.store.Count(ctx, domain.JobsTable, byID(id))
	if err != nil {
		return apperr.Internal("failed to delete job opening", err)
	}
	if n == 0 {
		return domain.ErrJobNotFound
	}
	if _, err := s.store.Delete(ctx, domain.JobsTable, byID(id)); err != nil {
		return apperr.Internal("failed to delete job opening", err)
	}
	return nil
}

// CloseExpiredOpenings deactivates active openings whose deadline has passed.
func (s *CareersService) CloseExpiredOpenings(ctx context.Context) (int, error) {
	now := s.now()
	rows, err := s.store.Update(ctx, domain.JobsTable, []store.Filter{
		store.Eq("is_active", true),
		store.Lte("application_deadline", now),
	}, store.Record{"is_active": false, "updated_at": now})
	if err != nil {
		return 0, apperr.Internal("failed to close expired openings", err)
	}
	return len(rows), nil
}

func decodeJob(rec store.Record) (*domain.Job, error) {
	j, err := store.Decode[domain.Job](rec)
	if err != nil {
		return nil, apperr.Internal("failed to read job opening", err)
	}
	return &j, nil
}
