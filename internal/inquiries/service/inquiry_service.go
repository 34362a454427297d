package service

import (
	"context"
	"strings"
	"time"

	"github.com/focitech/focitech-backend/internal/apperr"
	"github.com/focitech/focitech-backend/internal/inquiries/domain"
	"github.com/focitech/focitech-backend/internal/notify"
	"github.com/focitech/focitech-backend/internal/pagination"
	"github.com/focitech/focitech-backend/internal/store"
	"github.com/focitech/focitech-backend/internal/validate"
)

type InquiryService struct {
	store    store.Client
	notifier notify.Notifier
	now      func() time.Time
}

func NewInquiryService(st store.Client, notifier notify.Notifier) *InquiryService {
	return &InquiryService{
		store:    st,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a contact form submission and notifies staff.
func (s *InquiryService) Create(ctx context.Context, req domain.CreateInquiryRequest) (*domain.Inquiry, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	rec := req.Record()
	rec["created_at"] = s.now()
	row, err := s.store.Insert(ctx, domain.Table, rec)
	if err != nil {
		return nil, apperr.Internal("could not submit inquiry", err)
	}
	inq, err := decode(row)
	if err != nil {
		return nil, err
	}

	notify.Send(ctx, s.notifier, notify.Event{
		Type:    notify.EventInquiryCreated,
		ID:      inq.ID,
		Name:    inq.Name,
		Email:   inq.Email,
		Subject: inq.Subject,
	})
	return inq, nil
}

// List returns inquiries newest first. An unknown status filter is ignored.
func (s *InquiryService) List(ctx context.Context, f domain.ListFilter, p pagination.Params) (pagination.Page[domain.Inquiry], error) {
	var filters []store.Filter
	if f.Status.Valid() {
		filters = append(filters, store.Eq("status", string(f.Status)))
	}
	if f.Search != "" {
		filters = append(filters, store.Or(
			store.ILike("name", f.Search),
			store.ILike("email", f.Search),
			store.ILike("subject", f.Search),
			store.ILike("message", f.Search),
		))
	}
	if f.From != nil {
		filters = append(filters, store.Gte("created_at", *f.From))
	}
	if f.To != nil {
		filters = append(filters, store.Lte("created_at", *f.To))
	}

	total, err := s.store.Count(ctx, domain.Table, filters)
	if err != nil {
		return pagination.Page[domain.Inquiry]{}, apperr.Internal("could not retrieve inquiries", err)
	}
	rows, err := s.store.Select(ctx, domain.Table, store.Query{
		Filters: filters,
		Order:   []store.Order{{Column: "created_at", Desc: true}},
		Limit:   p.Limit,
		Offset:  p.Offset,
	})
	if err != nil {
		return pagination.Page[domain.Inquiry]{}, apperr.Internal("could not retrieve inquiries", err)
	}
	items, err := store.DecodeAll[domain.Inquiry](rows)
	if err != nil {
		return pagination.Page[domain.Inquiry]{}, apperr.Internal("could not retrieve inquiries", err)
	}
	return pagination.NewPage(items, total, p), nil
}

func (s *InquiryService) Get(ctx context.Context, id int64) (*domain.Inquiry, error) {
	rows, err := s.store.Select(ctx, domain.Table, store.Query{
		Filters: []store.Filter{store.Eq("id", id)},
		Limit:   1,
	})
	if err != nil {
		return nil, apperr.Internal("could not retrieve inquiry", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrInquiryNotFound
	}
	return decode(rows[0])
}

// Update changes status and notes. Concurrent updates are last-writer-wins.
func (s *InquiryService) Update(ctx context.Context, id int64, req domain.UpdateInquiryRequest) (*domain.Inquiry, error) {
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
		return nil, apperr.Internal("could not update inquiry", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrInquiryNotFound
	}
	return decode(rows[0])
}

func (s *InquiryService) Delete(ctx context.Context, id int64) error {
	byID := []store.Filter{store.Eq("id", id)}

	n, err := s.store.Count(ctx, domain.Table, byID)
	if err != nil {
		return apperr.Internal("could not delete inquiry", err)
	}
	if n == 0 {
		return domain.ErrInquiryNotFound
	}
	if _, err := s.store.Delete(ctx, domain.Table, byID); err != nil {
		return apperr.Internal("could not delete inquiry", err)
	}
	return nil
}

func decode(rec store.Record) (*domain.Inquiry, error) {
	inq, err := store.Decode[domain.Inquiry](rec)
	if err != nil {
		return nil, apperr.Internal("could not read inquiry", err)
	}
	return &inq, nil
}
