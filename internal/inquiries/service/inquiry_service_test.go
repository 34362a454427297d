package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focitech/focitech-backend/internal/apperr"
	"github.com/focitech/focitech-backend/internal/inquiries/domain"
	"github.com/focitech/focitech-backend/internal/notify"
	"github.com/focitech/focitech-backend/internal/pagination"
	"github.com/focitech/focitech-backend/internal/store"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *recordingNotifier) Notify(_ context.Context, ev notify.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return nil
}

func ptr[T any](v T) *T { return &v }

func validInquiry() domain.CreateInquiryRequest {
	return domain.CreateInquiryRequest{
		Name:    "Grace Hopper",
		Email:   " Grace@Navy.MIL ",
		Subject: "New website",
		Message: "We would like a quote.",
	}
}

func TestCreate_StoresPendingAndNotifies(t *testing.T) {
	n := &recordingNotifier{}
	svc := NewInquiryService(store.NewInMemoryStore(), n)

	inq, err := svc.Create(context.Background(), validInquiry())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, inq.Status)
	assert.Equal(t, "grace@navy.mil", inq.Email)

	require.Len(t, n.events, 1)
	assert.Equal(t, notify.EventInquiryCreated, n.events[0].Type)
	assert.Equal(t, inq.ID, n.events[0].ID)
}

func TestCreate_Validation(t *testing.T) {
	n := &recordingNotifier{}
	svc := NewInquiryService(store.NewInMemoryStore(), n)

	tests := map[string]func(*domain.CreateInquiryRequest){
		"bad email":       func(r *domain.CreateInquiryRequest) { r.Email = "nope" },
		"missing subject": func(r *domain.CreateInquiryRequest) { r.Subject = "" },
		"bad phone":       func(r *domain.CreateInquiryRequest) { r.Phone = ptr("12") },
		"long company": func(r *domain.CreateInquiryRequest) {
			r.Company = ptr(fmt.Sprintf("%0101d", 0))
		},
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			req := validInquiry()
			mutate(&req)
			_, err := svc.Create(context.Background(), req)
			assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
		})
	}
	assert.Empty(t, n.events)
}

func TestList_Filters(t *testing.T) {
	st := store.NewInMemoryStore()
	svc := NewInquiryService(st, nil)
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	for i, subject := range []string{"Website quote", "Mobile app", "Website redesign"} {
		at := base.Add(time.Duration(i) * 24 * time.Hour)
		svc.now = func() time.Time { return at }
		req := validInquiry()
		req.Subject = subject
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}
	_, err := svc.Update(ctx, 2, domain.UpdateInquiryRequest{Status: ptr("spam")})
	require.NoError(t, err)

	page, err := svc.List(ctx, domain.ListFilter{Search: "website"}, pagination.Params{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, "Website redesign", page.Items[0].Subject)

	page, err = svc.List(ctx, domain.ListFilter{Status: domain.StatusSpam}, pagination.Params{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	page, err = svc.List(ctx, domain.ListFilter{Status: "bogus"}, pagination.Params{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)

	from := base.Add(24 * time.Hour)
	page, err = svc.List(ctx, domain.ListFilter{From: &from}, pagination.Params{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	to := base
	page, err = svc.List(ctx, domain.ListFilter{To: &to}, pagination.Params{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestUpdate(t *testing.T) {
	svc := NewInquiryService(store.NewInMemoryStore(), nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.Update(ctx, 1, domain.UpdateInquiryRequest{})
		assert.ErrorIs(t, err, domain.ErrNoChanges)
	}

	_, err := svc.Update(ctx, 1, domain.UpdateInquiryRequest{Status: ptr("resolved")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	inq, err := svc.Create(ctx, validInquiry())
	require.NoError(t, err)

	_, err = svc.Update(ctx, inq.ID, domain.UpdateInquiryRequest{Status: ptr("archived")})
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))

	got, err := svc.Update(ctx, inq.ID, domain.UpdateInquiryRequest{Status: ptr("responded"), Notes: ptr("called back")})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusResponded, got.Status)
	assert.Equal(t, "called back", *got.Notes)
}

func TestUpdate_ConcurrentStatusChangesBothSucceed(t *testing.T) {
	svc := NewInquiryService(store.NewInMemoryStore(), nil)
	ctx := context.Background()
	inq, err := svc.Create(ctx, validInquiry())
	require.NoError(t, err)

	statuses := []string{"responded", "resolved"}
	var wg sync.WaitGroup
	errs := make([]error, len(statuses))
	for i, s := range statuses {
		wg.Add(1)
		go func(i int, s string) {
			defer wg.Done()
			_, errs[i] = svc.Update(ctx, inq.ID, domain.UpdateInquiryRequest{Status: ptr(s)})
		}(i, s)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	final, err := svc.Get(ctx, inq.ID)
	require.NoError(t, err)
	assert.Contains(t, []domain.Status{domain.StatusResponded, domain.StatusResolved}, final.Status)
}

func TestDelete(t *testing.T) {
	svc := NewInquiryService(store.NewInMemoryStore(), nil)
	ctx := context.Background()
	assert.True(t, apperr.Is(svc.Delete(ctx, 1), apperr.KindNotFound))

	inq, err := svc.Create(ctx, validInquiry())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, inq.ID))
	assert.True(t, apperr.Is(svc.Delete(ctx, inq.ID), apperr.KindNotFound))
}
