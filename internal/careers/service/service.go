// Package service implements job openings, applications and hiring stats.
package service

import (
	"context"
	"io"
	"time"

	"github.com/focitech/focitech-backend/internal/notify"
	"github.com/focitech/focitech-backend/internal/store"
)

// Uploader stores a validated resume and returns its URL.
type Uploader interface {
	Check(filename string, size int64) error
	Upload(ctx context.Context, r io.Reader, size int64, filename, contentType string) (string, error)
	MaxBytes() int64
}

type CareersService struct {
	store    store.Client
	uploader Uploader
	notifier notify.Notifier
	now      func() time.Time
}

func NewCareersService(st store.Client, uploader Uploader, notifier notify.Notifier) *CareersService {
	return &CareersService{
		store:    st,
		uploader: uploader,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// MaxResumeBytes is the resume size limit enforced by the uploader.
func (s *CareersService) MaxResumeBytes() int64 { return s.uploader.MaxBytes() }

func byID(id int64) []store.Filter {
	return []store.Filter{store.Eq("id", id)}
}
