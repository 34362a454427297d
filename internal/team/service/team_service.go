package service

import (
	"context"
	"time"

	"github.com/focitech/focitech-backend/internal/apperr"
	"github.com/focitech/focitech-backend/internal/pagination"
	"github.com/focitech/focitech-backend/internal/store"
	"github.com/focitech/focitech-backend/internal/team/domain"
	"github.com/focitech/focitech-backend/internal/validate"
)

type TeamService struct {
	store store.Client
	now   func() time.Time
}

func NewTeamService(st store.Client) *TeamService {
	return &TeamService{
		store: st,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// List returns members in id order.
func (s *TeamService) List(ctx context.Context, f domain.ListFilter, p pagination.Params) (pagination.Page[domain.Member], error) {
	var filters []store.Filter
	if f.Search != "" {
		filters = append(filters, store.Or(
			store.ILike("name", f.Search),
			store.ILike("role", f.Search),
			store.ILike("bio", f.Search),
		))
	}
	if f.Role != "" {
		filters = append(filters, store.ILike("role", f.Role))
	}

	total, err := s.store.Count(ctx, domain.Table, filters)
	if err != nil {
		return pagination.Page[domain.Member]{}, apperr.Internal("failed to retrieve team data", err)
	}
	rows, err := s.store.Select(ctx, domain.Table, store.Query{
		Filters: filters,
		Order:   []store.Order{{Column: "id"}},
		Limit:   p.Limit,
		Offset:  p.Offset,
	})
	if err != nil {
		return pagination.Page[domain.Member]{}, apperr.Internal("failed to retrieve team data", err)
	}

	members, err := store.DecodeAll[domain.Member](rows)
	if err != nil {
		return pagination.Page[domain.Member]{}, apperr.Internal("failed to retrieve team data", err)
	}
	return pagination.NewPage(members, total, p), nil
}

func (s *TeamService) Get(ctx context.Context, id int64) (*domain.Member, error) {
	rows, err := s.store.Select(ctx, domain.Table, store.Query{
		Filters: []store.Filter{store.Eq("id", id)},
		Limit:   1,
	})
	if err != nil {
		return nil, apperr.Internal("failed to retrieve team member", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrMemberNotFound
	}
	return decode(rows[0])
}

func (s *TeamService) Create(ctx context.Context, req domain.CreateMemberRequest) (*domain.Member, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	rec := req.Record()
	rec["created_at"] = s.now()
	row, err := s.store.Insert(ctx, domain.Table, rec)
	if err != nil {
		return nil, apperr.Internal("database rejected team entry", err)
	}
	return decode(row)
}

func (s *TeamService) Update(ctx context.Context, id int64, req domain.UpdateMemberRequest) (*domain.Member, error) {
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
		return nil, apperr.Internal("failed to update team member", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrMemberNotFound
	}
	return decode(rows[0])
}

func (s *TeamService) Delete(ctx context.Context, id int64) error {
	byID := []store.Filter{store.Eq("id", id)}

	n, err := s.store.Count(ctx, domain.Table, byID)
	if err != nil {
		return apperr.Internal("failed to delete team member", err)
	}
	if n == 0 {
		return domain.ErrMemberNotFound
	}
	if _, err := s.store.Delete(ctx, domain.Table, byID); err != nil {
		return apperr.Internal("failed to delete team member", err)
	}
	return nil
}

func decode(rec store.Record) (*domain.Member, error) {
	m, err := store.Decode[domain.Member](rec)
	if err != nil {
		return nil, apperr.Internal("failed to read team member", err)
	}
	return &m, nil
}
