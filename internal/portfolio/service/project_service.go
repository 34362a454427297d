package service

import (
	"context"
	"time"

	"github.com/focitech/focitech-backend/internal/apperr"
	"github.com/focitech/focitech-backend/internal/pagination"
	"github.com/focitech/focitech-backend/internal/portfolio/domain"
	"github.com/focitech/focitech-backend/internal/store"
	"github.com/focitech/focitech-backend/internal/validate"
)

// ProjectService handles the portfolio projects table.
type ProjectService struct {
	store store.Client
	now   func() time.Time
}

func NewProjectService(st store.Client) *ProjectService {
	return &ProjectService{
		store: st,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func listFilters(f domain.ListFilter) []store.Filter {
	var filters []store.Filter
	if f.Search != "" {
		filters = append(filters, store.Or(
			store.ILike("title", f.Search),
			store.ILike("description", f.Search),
		))
	}
	if f.Tech != "" {
		filters = append(filters, store.Contains("tech_stack", f.Tech))
	}
	if f.Featured != nil {
		filters = append(filters, store.Eq("is_featured", *f.Featured))
	}
	return filters
}

// List returns projects newest first.
func (s *ProjectService) List(ctx context.Context, f domain.ListFilter, p pagination.Params) (pagination.Page[domain.Project], error) {
	filters := listFilters(f)

	total, err := s.store.Count(ctx, domain.Table, filters)
	if err != nil {
		return pagination.Page[domain.Project]{}, apperr.Internal("could not retrieve portfolio data", err)
	}

	rows, err := s.store.Select(ctx, domain.Table, store.Query{
		Filters: filters,
		Order:   []store.Order{{Column: "created_at", Desc: true}},
		Limit:   p.Limit,
		Offset:  p.Offset,
	})
	if err != nil {
		return pagination.Page[domain.Project]{}, apperr.Internal("could not retrieve portfolio data", err)
	}

	items, err := store.DecodeAll[domain.Project](rows)
	if err != nil {
		return pagination.Page[domain.Project]{}, apperr.Internal("could not retrieve portfolio data", err)
	}
	return pagination.NewPage(items, total, p), nil
}

func (s *ProjectService) Get(ctx context.Context, id int64) (*domain.Project, error) {
	rows, err := s.store.Select(ctx, domain.Table, store.Query{
		Filters: []store.Filter{store.Eq("id", id)},
		Limit:   1,
	})
	if err != nil {
		return nil, apperr.Internal("could not retrieve project", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrProjectNotFound
	}
	return decode(rows[0])
}

func (s *ProjectService) Create(ctx context.Context, req domain.CreateProjectRequest) (*domain.Project, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	rec := req.Record()
	rec["created_at"] = s.now()

	row, err := s.store.Insert(ctx, domain.Table, rec)
	if err != nil {
		return nil, apperr.Internal("database insertion failed", err)
	}
	return decode(row)
}

// Update merges the supplied fields into the project.
func (s *ProjectService) Update(ctx context.Context, id int64, req domain.UpdateProjectRequest) (*domain.Project, error) {
	patch := req.Patch()
	if len(patch) == 0 {
		return nil, domain.ErrNoChanges
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	patch["updated_at"] = s.now()

	rows, err := s.store.Update(ctx, domain.Table, []store.Filter{store.Eq("id", id)}, patch)
	if err != nil {
		return nil, apperr.Internal("could not update project", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrProjectNotFound
	}
	return decode(rows[0])
}

func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	byID := []store.Filter{store.Eq("id", id)}

	n, err := s.store.Count(ctx, domain.Table, byID)
	if err != nil {
		return apperr.Internal("could not delete project", err)
	}
	if n == 0 {
		return domain.ErrProjectNotFound
	}

	if _, err := s.store.Delete(ctx, domain.Table, byID); err != nil {
		return apperr.Internal("could not delete project", err)
	}
	return nil
}

// Export returns every project, newest first, for the admin backup download.
func (s *ProjectService) Export(ctx context.Context) ([]domain.Project, error) {
	rows, err := s.store.Select(ctx, domain.Table, store.Query{
		Order: []store.Order{{Column: "created_at", Desc: true}},
	})
	if err != nil {
		return nil, apperr.Internal("could not export projects", err)
	}
	items, err := store.DecodeAll[domain.Project](rows)
	if err != nil {
		return nil, apperr.Internal("could not export projects", err)
	}
	return items, nil
}

func decode(rec store.Record) (*domain.Project, error) {
	p, err := store.Decode[domain.Project](rec)
	if err != nil {
		return nil, apperr.Internal("could not read project", err)
	}
	return &p, nil
}
